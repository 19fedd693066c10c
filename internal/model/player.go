package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID int64

// Player represents a registered account with a coin balance.
// Coins are mutated only through the storage debit/credit operations;
// everything else is written at registration time.
type Player struct {
	ID           PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	Mail         string
	Coins        int64 // non-negative balance
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
