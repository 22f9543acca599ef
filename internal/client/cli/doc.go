// Package cli provides the interactive flashcards command-line client.
//
// It wires configuration and the API client into a small REPL. On start it
// asks the API client to resume a session, which only succeeds if the client
// already holds a refresh cookie, then reads commands:
//
//   - register / login / logout / whoami
//   - decks, adddeck, editdeck, rmdeck, summary <deckID>
//   - cards <deckID>, addcard <deckID>, editcard <cardID>, rmcard <cardID>
//
// The session is renewed transparently by the API client; the REPL only
// sees an error when the refresh itself is refused, at which point the user
// has to log in again.
package cli
