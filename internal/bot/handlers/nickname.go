package handlers

import "strings"

// Callback data uses "_" to separate fields (e.g. "get_comp2_alice_bob"),
// but Telegram usernames may themselves contain underscores. Since usernames
// can never contain "-", nicknames are stored in callback data with "_"
// swapped for "-" and restored on the way back.

// EncodeNickname makes a nickname safe for use inside callback data.
func EncodeNickname(nickname string) string {
	return strings.ReplaceAll(nickname, "_", "-")
}

// DecodeNickname reverses EncodeNickname.
func DecodeNickname(encoded string) string {
	return strings.ReplaceAll(encoded, "-", "_")
}
