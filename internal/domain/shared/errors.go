package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// NotFoundError indicates a referenced row or entity does not exist
type NotFoundError struct {
	*DomainError
	Kind string
	ID   string
}

func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s not found: %s", kind, id)},
		Kind:        kind,
		ID:          id,
	}
}

// BotNotFoundError is raised by snapshot capture when the bot seat is missing
type BotNotFoundError struct {
	*NotFoundError
	GameID   GameID
	PlayerID PlayerID
}

func NewBotNotFoundError(gameID GameID, playerID PlayerID) *BotNotFoundError {
	return &BotNotFoundError{
		NotFoundError: NewNotFoundError("bot player", fmt.Sprintf("%s in game %s", playerID, gameID)),
		GameID:        gameID,
		PlayerID:      playerID,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Money and debt errors

type InsufficientFundsError struct {
	*DomainError
	Required  Money
	Available Money
}

func NewInsufficientFundsError(required, available Money) *InsufficientFundsError {
	return &InsufficientFundsError{
		DomainError: &DomainError{Message: fmt.Sprintf("insufficient funds: need %s, have %s", required, available)},
		Required:    required,
		Available:   available,
	}
}

// Train errors

type CapacityExceededError struct {
	*DomainError
	Capacity int
	Carried  int
}

func NewCapacityExceededError(capacity, carried int) *CapacityExceededError {
	return &CapacityExceededError{
		DomainError: &DomainError{Message: fmt.Sprintf("train capacity exceeded: capacity %d, carrying %d", capacity, carried)},
		Capacity:    capacity,
		Carried:     carried,
	}
}

type MovementExhaustedError struct {
	*DomainError
	Remaining int
}

func NewMovementExhaustedError(remaining int) *MovementExhaustedError {
	return &MovementExhaustedError{
		DomainError: &DomainError{Message: fmt.Sprintf("no movement remaining this turn (%d left)", remaining)},
		Remaining:   remaining,
	}
}

// Track errors

type InvalidSegmentError struct {
	*DomainError
}

func NewInvalidSegmentError(message string) *InvalidSegmentError {
	return &InvalidSegmentError{DomainError: &DomainError{Message: message}}
}

type BuildBudgetExceededError struct {
	*DomainError
	SpentThisTurn Money
	Attempted     Money
	Budget        Money
}

func NewBuildBudgetExceededError(spent, attempted, budget Money) *BuildBudgetExceededError {
	return &BuildBudgetExceededError{
		DomainError: &DomainError{
			Message: fmt.Sprintf("per-turn build budget exceeded: spent %s, attempted %s, budget %s", spent, attempted, budget),
		},
		SpentThisTurn: spent,
		Attempted:     attempted,
		Budget:        budget,
	}
}

// Hand errors

type CardNotInHandError struct {
	*DomainError
	CardID int
}

func NewCardNotInHandError(cardID int) *CardNotInHandError {
	return &CardNotInHandError{
		DomainError: &DomainError{Message: fmt.Sprintf("demand card %d is not in hand", cardID)},
		CardID:      cardID,
	}
}
