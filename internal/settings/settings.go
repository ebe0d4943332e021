// Package settings holds the user-facing options that steer detection and
// alerting, and keeps them in sync with a YAML file on disk.
package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Keys of the settings file.
const (
	KeyRankThreshold         = "rank_threshold"
	KeyAlertForExperienceCap = "alert_for_200m_xp"
	KeyIgnoreList            = "ignore_list"
	KeyAlertColor            = "alert_color"
	KeyCheckNearby           = "check_nearby_players"
	KeyCheckFriendsChat      = "check_friends_chat"
	KeyCheckClanChat         = "check_clan_chat"
)

// Rank threshold bounds and defaults.
const (
	MinRankThreshold     = 1
	MaxRankThreshold     = 10000
	DefaultRankThreshold = 25
	DefaultAlertColor    = "#FF0000"
)

// Keys lists every recognised key in file order.
var Keys = []string{
	KeyRankThreshold,
	KeyAlertForExperienceCap,
	KeyIgnoreList,
	KeyAlertColor,
	KeyCheckNearby,
	KeyCheckFriendsChat,
	KeyCheckClanChat,
}

// Settings are the user options.
type Settings struct {
	// RankThreshold is the inclusive upper bound for a notable rank.
	RankThreshold int `koanf:"rank_threshold" json:"rank_threshold"`
	// AlertForExperienceCap enables alerts for skills at 200m experience.
	AlertForExperienceCap bool `koanf:"alert_for_200m_xp" json:"alert_for_200m_xp"`
	// IgnoreList is a comma-delimited, case-insensitive list of names.
	IgnoreList string `koanf:"ignore_list" json:"ignore_list"`
	// AlertColor is the alert text color as #RRGGBB.
	AlertColor string `koanf:"alert_color" json:"alert_color"`

	CheckNearby      bool `koanf:"check_nearby_players" json:"check_nearby_players"`
	CheckFriendsChat bool `koanf:"check_friends_chat" json:"check_friends_chat"`
	CheckClanChat    bool `koanf:"check_clan_chat" json:"check_clan_chat"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		RankThreshold:         DefaultRankThreshold,
		AlertForExperienceCap: true,
		AlertColor:            DefaultAlertColor,
		CheckNearby:           true,
		CheckFriendsChat:      true,
		CheckClanChat:         true,
	}
}

// Normalize clamps the rank threshold into range and canonicalises the color.
// An unparsable color falls back to the default.
func (s Settings) Normalize() Settings {
	s.RankThreshold = clampThreshold(s.RankThreshold)
	if c, err := parseColor(s.AlertColor); err == nil {
		s.AlertColor = c
	} else {
		s.AlertColor = DefaultAlertColor
	}
	return s
}

// Get returns the string form of key.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case KeyRankThreshold:
		return strconv.Itoa(s.RankThreshold), nil
	case KeyAlertForExperienceCap:
		return strconv.FormatBool(s.AlertForExperienceCap), nil
	case KeyIgnoreList:
		return s.IgnoreList, nil
	case KeyAlertColor:
		return s.AlertColor, nil
	case KeyCheckNearby:
		return strconv.FormatBool(s.CheckNearby), nil
	case KeyCheckFriendsChat:
		return strconv.FormatBool(s.CheckFriendsChat), nil
	case KeyCheckClanChat:
		return strconv.FormatBool(s.CheckClanChat), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// With returns a copy of s with key set from its string form.
func (s Settings) With(key, value string) (Settings, error) {
	value = strings.TrimSpace(value)
	switch key {
	case KeyRankThreshold:
		n, err := strconv.Atoi(value)
		if err != nil {
			return s, fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, key, value, err)
		}
		s.RankThreshold = clampThreshold(n)
	case KeyIgnoreList:
		s.IgnoreList = value
	case KeyAlertColor:
		c, err := parseColor(value)
		if err != nil {
			return s, fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, key, value, err)
		}
		s.AlertColor = c
	case KeyAlertForExperienceCap, KeyCheckNearby, KeyCheckFriendsChat, KeyCheckClanChat:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return s, fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, key, value, err)
		}
		s.setBool(key, b)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s, nil
}

func (s *Settings) setBool(key string, b bool) {
	switch key {
	case KeyAlertForExperienceCap:
		s.AlertForExperienceCap = b
	case KeyCheckNearby:
		s.CheckNearby = b
	case KeyCheckFriendsChat:
		s.CheckFriendsChat = b
	case KeyCheckClanChat:
		s.CheckClanChat = b
	}
}

// toMap renders s for the YAML file.
func (s Settings) toMap() map[string]interface{} {
	return map[string]interface{}{
		KeyRankThreshold:         s.RankThreshold,
		KeyAlertForExperienceCap: s.AlertForExperienceCap,
		KeyIgnoreList:            s.IgnoreList,
		KeyAlertColor:            s.AlertColor,
		KeyCheckNearby:           s.CheckNearby,
		KeyCheckFriendsChat:      s.CheckFriendsChat,
		KeyCheckClanChat:         s.CheckClanChat,
	}
}

// Diff returns the keys whose values differ between a and b, in Keys order.
func Diff(a, b Settings) []string {
	var changed []string
	for _, k := range Keys {
		va, _ := a.Get(k)
		vb, _ := b.Get(k)
		if va != vb {
			changed = append(changed, k)
		}
	}
	return changed
}

func clampThreshold(n int) int {
	if n < MinRankThreshold {
		return MinRankThreshold
	}
	if n > MaxRankThreshold {
		return MaxRankThreshold
	}
	return n
}

// parseColor accepts #RGB or #RRGGBB, with or without the hash, and returns #RRGGBB upper-cased.
func parseColor(v string) (string, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return "", fmt.Errorf("color must be #RRGGBB")
	}
	if _, err := strconv.ParseUint(v, 16, 32); err != nil {
		return "", fmt.Errorf("color must be hexadecimal")
	}
	return "#" + strings.ToUpper(v), nil
}
