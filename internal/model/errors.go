package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrUsernameExists = errors.New("username already exists")

	// Game errors
	ErrGameNotFound = errors.New("game not found")
	ErrGameFinished = errors.New("game already finished")
	ErrEmptyPhrase  = errors.New("phrase is empty")

	// Economy errors
	ErrUnknownLetter     = errors.New("letter not in catalog")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
