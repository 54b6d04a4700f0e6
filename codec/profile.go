package codec

import (
	"board-lab/domain"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	profileID       protowire.Number = 1
	profileNickname protowire.Number = 2
	profileIcon     protowire.Number = 3
)

func MarshalProfile(p domain.Profile) []byte {
	b := appendUUID(nil, profileID, p.ID)
	b = appendString(b, profileNickname, p.Nickname)
	return appendString(b, profileIcon, string(p.Icon))
}

func UnmarshalProfile(b []byte) (domain.Profile, error) {
	var p domain.Profile
	var icon string
	err := walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case profileID:
			return consumeUUID(typ, v, &p.ID)
		case profileNickname:
			return consumeString(typ, v, &p.Nickname)
		case profileIcon:
			return consumeString(typ, v, &icon)
		}
		return 0, errSkip
	})
	if err != nil {
		return domain.Profile{}, err
	}
	p.Icon = domain.ProfileIcon(icon)
	return p, nil
}
