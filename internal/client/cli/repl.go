package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	printError(err error)
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Whoami(ctx context.Context) error
	Logout(ctx context.Context) error
	Decks(ctx context.Context) error
	AddDeck(ctx context.Context, args []string) error
	Summary(ctx context.Context, args []string) error
	Cards(ctx context.Context, args []string) error
	AddCard(ctx context.Context, args []string) error
	EditDeck(ctx context.Context, args []string) error
	DeleteDeck(ctx context.Context, args []string) error
	EditCard(ctx context.Context, args []string) error
	DeleteCard(ctx context.Context, args []string) error
}

// runREPL starts a simple read-eval-print loop for the flashcards CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the rest as arguments. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help                          show available commands
//	  - register                      create an account
//	  - login                         authenticate
//	  - exit | quit                   leave the program
//
//	Logged in:
//	  - whoami                        show the current user
//	  - decks                         list decks
//	  - adddeck [parentID]            create a deck, optionally under another one
//	  - editdeck <deckID> [parentID]  rename a deck and set its parent
//	  - rmdeck <deckID>               delete a deck with its sub-decks and cards
//	  - summary <deckID>              number of cards in a deck and its sub-decks
//	  - cards <deckID>                list the cards in a deck
//	  - addcard <deckID>              add a card to a deck
//	  - editcard <cardID>             change both sides of a card
//	  - rmcard <cardID>               delete a card
//	  - logout                        end the session
//	  - exit | quit                   leave the program
//
// Errors returned by handlers are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fc %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, decks, adddeck, editdeck, rmdeck, summary, cards, addcard, editcard, rmcard, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "whoami":
			err = a.Whoami(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "decks":
			err = a.Decks(ctx)

		case "adddeck":
			err = a.AddDeck(ctx, args)

		case "summary":
			err = a.Summary(ctx, args)

		case "cards":
			err = a.Cards(ctx, args)

		case "addcard":
			err = a.AddCard(ctx, args)

		case "editdeck":
			err = a.EditDeck(ctx, args)

		case "rmdeck":
			err = a.DeleteDeck(ctx, args)

		case "editcard":
			err = a.EditCard(ctx, args)

		case "rmcard":
			err = a.DeleteCard(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			a.printError(err)
		}
	}
}
