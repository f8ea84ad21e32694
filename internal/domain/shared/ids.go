package shared

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GameID is a value object identifying one game room.
type GameID struct {
	value string
}

// NewGameID creates a GameID value object
func NewGameID(id string) (GameID, error) {
	if strings.TrimSpace(id) == "" {
		return GameID{}, fmt.Errorf("game_id must not be empty")
	}
	return GameID{value: id}, nil
}

// MustNewGameID creates a GameID, panicking if invalid
// Use this only when you're certain the ID is valid (e.g., from database)
func MustNewGameID(id string) GameID {
	gameID, err := NewGameID(id)
	if err != nil {
		panic(err)
	}
	return gameID
}

// Value returns the string value of the GameID
func (g GameID) Value() string {
	return g.value
}

// String returns a string representation of the GameID
func (g GameID) String() string {
	return g.value
}

// Equals checks if two GameIDs are equal
func (g GameID) Equals(other GameID) bool {
	return g.value == other.value
}

// IsZero checks if the GameID is the zero value (uninitialized)
func (g GameID) IsZero() bool {
	return g.value == ""
}

// MarshalJSON serializes the GameID as its plain string value
func (g GameID) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.value)
}

// UnmarshalJSON restores a GameID from its plain string value
func (g *GameID) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &g.value)
}

// PlayerID is a value object identifying one seat in a game.
type PlayerID struct {
	value int
}

// NewPlayerID creates a PlayerID value object
func NewPlayerID(id int) (PlayerID, error) {
	if id <= 0 {
		return PlayerID{}, fmt.Errorf("player_id must be positive")
	}
	return PlayerID{value: id}, nil
}

// MustNewPlayerID creates a PlayerID, panicking if invalid
// Use this only when you're certain the ID is valid (e.g., from database)
func MustNewPlayerID(id int) PlayerID {
	playerID, err := NewPlayerID(id)
	if err != nil {
		panic(err)
	}
	return playerID
}

// Value returns the integer value of the PlayerID
func (p PlayerID) Value() int {
	return p.value
}

// String returns a string representation of the PlayerID
func (p PlayerID) String() string {
	return fmt.Sprintf("%d", p.value)
}

// Equals checks if two PlayerIDs are equal
func (p PlayerID) Equals(other PlayerID) bool {
	return p.value == other.value
}

// IsZero checks if the PlayerID is the zero value (uninitialized)
func (p PlayerID) IsZero() bool {
	return p.value == 0
}

// MarshalJSON serializes the PlayerID as its plain integer value
func (p PlayerID) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.value)
}

// UnmarshalJSON restores a PlayerID from its plain integer value
func (p *PlayerID) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.value)
}

// UserID identifies the account behind a human seat. Bot seats have no user.
type UserID struct {
	value string
}

// NewUserID creates a UserID value object
func NewUserID(id string) (UserID, error) {
	if strings.TrimSpace(id) == "" {
		return UserID{}, fmt.Errorf("user_id must not be empty")
	}
	return UserID{value: id}, nil
}

// MustNewUserID creates a UserID, panicking if invalid
// Use this only when you're certain the ID is valid (e.g., from database)
func MustNewUserID(id string) UserID {
	userID, err := NewUserID(id)
	if err != nil {
		panic(err)
	}
	return userID
}

// Value returns the string value of the UserID
func (u UserID) Value() string {
	return u.value
}

// String returns a string representation of the UserID
func (u UserID) String() string {
	return u.value
}

// Equals checks if two UserIDs are equal
func (u UserID) Equals(other UserID) bool {
	return u.value == other.value
}

// IsZero checks if the UserID is the zero value (bot seats)
func (u UserID) IsZero() bool {
	return u.value == ""
}

// MarshalJSON serializes the UserID as its plain string value
func (u UserID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.value)
}

// UnmarshalJSON restores a UserID from its plain string value
func (u *UserID) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &u.value)
}
