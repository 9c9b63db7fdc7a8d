package core

// TurnState is the chat handler's position within the current turn. Every
// turn ends back at idle, whether it succeeded or hit the error state.
type TurnState string

const (
	TurnStateIdle       TurnState = "idle"
	TurnStateReceived   TurnState = "received"
	TurnStateSearching  TurnState = "searching"
	TurnStateComposing  TurnState = "composing"
	TurnStateCompleting TurnState = "completing"
	TurnStateError      TurnState = "error"
)
