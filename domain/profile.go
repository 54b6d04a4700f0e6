// Package domain contains core concepts of the whiteboard session.
// Profiles, whiteboard objects and the object store live here.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ProfileIcon string

const (
	IconAngel    ProfileIcon = "angel"
	IconCold     ProfileIcon = "cold"
	IconCool     ProfileIcon = "cool"
	IconCrying   ProfileIcon = "crying"
	IconExcited  ProfileIcon = "excited"
	IconHeart    ProfileIcon = "heart"
	IconNerd     ProfileIcon = "nerd"
	IconSleeping ProfileIcon = "sleeping"
	IconSmiling  ProfileIcon = "smiling"
	IconSurprise ProfileIcon = "surprise"
)

var AllIcons = []ProfileIcon{
	IconAngel, IconCold, IconCool, IconCrying, IconExcited,
	IconHeart, IconNerd, IconSleeping, IconSmiling, IconSurprise,
}

// ParseProfileIcon returns false for tokens that are not part of the icon set.
func ParseProfileIcon(token string) (ProfileIcon, bool) {
	icon := ProfileIcon(token)
	return icon, lo.Contains(AllIcons, icon)
}

func RandomIcon() ProfileIcon {
	return AllIcons[rand.IntN(len(AllIcons))]
}

// Profile identifies a participant. Two profiles are the same participant when their IDs match,
// whatever their nickname or icon.
type Profile struct {
	ID       uuid.UUID
	Nickname string `validate:"required,max=36"`
	Icon     ProfileIcon
}

func NewProfile(nickname string, icon ProfileIcon) Profile {
	return Profile{ID: uuid.New(), Nickname: nickname, Icon: icon}
}

func (p Profile) Equal(other Profile) bool {
	return p.ID == other.ID
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%s)", p.Nickname, p.Icon)
}

var (
	adjectives = []string{
		"swift", "brave", "cute", "lively", "clever",
		"plucky", "smart", "quick", "bold", "curious",
	}
	animals = []string{
		"fox", "wolf", "rabbit", "lion", "squirrel", "eagle", "bear", "tiger",
		"leopard", "cat", "owl", "penguin", "horned owl", "mole", "seal", "puppy",
	}
)

// RandomNickname builds an "adjective animal" nickname.
func RandomNickname() string {
	return adjectives[rand.IntN(len(adjectives))] + " " + animals[rand.IntN(len(animals))]
}
