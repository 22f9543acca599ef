package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errUsage = errors.New("usage")

// idArg parses the id at args[i]. When optional is set a missing id yields nil.
func idArg(args []string, i int, optional bool, usage string) (*int64, error) {
	if len(args) <= i {
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", errUsage, usage)
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: %s", errUsage, usage)
	}
	return &id, nil
}

func (a *App) Decks(ctx context.Context) error {
	decks, err := a.api.ListDecks(ctx)
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		fmt.Fprintln(a.out, "No decks yet, use adddeck")
		return nil
	}
	for _, d := range decks {
		parent := "-"
		if d.ParentID != nil {
			parent = strconv.FormatInt(*d.ParentID, 10)
		}
		fmt.Fprintf(a.out, "%d\t%s\tparent: %s\n", d.ID, d.Name, parent)
	}
	return nil
}

func (a *App) AddDeck(ctx context.Context, args []string) error {
	parentID, err := idArg(args, 0, true, "adddeck [parentID]")
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Deck name", a.out)
	if err != nil {
		return err
	}

	d, err := a.api.CreateDeck(ctx, name, parentID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created deck %d\n", d.ID)
	return nil
}

func (a *App) Summary(ctx context.Context, args []string) error {
	id, err := idArg(args, 0, false, "summary <deckID>")
	if err != nil {
		return err
	}

	s, err := a.api.DeckSummary(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %d cards\n", s.Name, s.CardCount)
	return nil
}

func (a *App) Cards(ctx context.Context, args []string) error {
	id, err := idArg(args, 0, false, "cards <deckID>")
	if err != nil {
		return err
	}

	cards, err := a.api.ListCards(ctx, *id)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Fprintln(a.out, "No cards in this deck")
		return nil
	}
	for _, c := range cards {
		fmt.Fprintf(a.out, "%d\t%s\t%s\n", c.ID, c.Front, strings.ReplaceAll(c.Back, "\n", " "))
	}
	return nil
}

func (a *App) AddCard(ctx context.Context, args []string) error {
	id, err := idArg(args, 0, false, "addcard <deckID>")
	if err != nil {
		return err
	}
	front, err := getSimpleText(a.reader, "Front", a.out)
	if err != nil {
		return err
	}
	back, err := getSimpleText(a.reader, "Back", a.out)
	if err != nil {
		return err
	}

	c, err := a.api.CreateCard(ctx, *id, front, back)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created card %d\n", c.ID)
	return nil
}

// EditDeck renames a deck and sets its parent. Without a parent id the deck
// moves to the top level.
func (a *App) EditDeck(ctx context.Context, args []string) error {
	const usage = "editdeck <deckID> [parentID]"
	id, err := idArg(args, 0, false, usage)
	if err != nil {
		return err
	}
	parentID, err := idArg(args, 1, true, usage)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "New name", a.out)
	if err != nil {
		return err
	}

	d, err := a.api.UpdateDeck(ctx, *id, name, parentID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated deck %d\n", d.ID)
	return nil
}

func (a *App) DeleteDeck(ctx context.Context, args []string) error {
	id, err := idArg(args, 0, false, "rmdeck <deckID>")
	if err != nil {
		return err
	}
	if err := a.api.DeleteDeck(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted deck %d with its sub-decks and cards\n", *id)
	return nil
}

func (a *App) EditCard(ctx context.Context, args []string) error {
	id, err := idArg(args, 0, false, "editcard <cardID>")
	if err != nil {
		return err
	}
	front, err := getSimpleText(a.reader, "Front", a.out)
	if err != nil {
		return err
	}
	back, err := getSimpleText(a.reader, "Back", a.out)
	if err != nil {
		return err
	}

	c, err := a.api.UpdateCard(ctx, *id, front, back)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated card %d\n", c.ID)
	return nil
}

func (a *App) DeleteCard(ctx context.Context, args []string) error {
	id, err := idArg(args, 0, false, "rmcard <cardID>")
	if err != nil {
		return err
	}
	if err := a.api.DeleteCard(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted card %d\n", *id)
	return nil
}
