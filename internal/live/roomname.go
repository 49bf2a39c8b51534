package live

import (
	"crypto/rand"
	"math/big"
)

// Word lists for classroom names
var adjectives = []string{
	"brave", "bright", "calm", "clever", "cosmic", "daring", "eager", "gentle",
	"golden", "happy", "jolly", "kind", "lively", "lucky", "merry", "mighty",
	"noble", "quick", "quiet", "sunny", "swift", "vivid", "wise", "zesty",
}

var nouns = []string{
	"otter", "falcon", "comet", "maple", "harbor", "meadow", "panda", "pixel",
	"python", "rocket", "river", "summit", "tiger", "tulip", "lantern", "nebula",
	"orbit", "quartz", "robin", "sparrow", "thunder", "walrus", "willow", "zephyr",
}

// RoomNameSuffixLength is the number of random characters appended to a room name
const RoomNameSuffixLength = 4

// GenerateRoomName returns a random name in the form "adjective-noun-xxxx"
func GenerateRoomName() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}

	suffix, err := randomSuffix(RoomNameSuffixLength)
	if err != nil {
		return "", err
	}

	return adjective + "-" + noun + "-" + suffix, nil
}

func randomSuffix(n int) (string, error) {
	chars := "abcdefghijklmnopqrstuvwxyz0123456789"
	out := make([]byte, n)

	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		out[i] = chars[num.Int64()]
	}

	return string(out), nil
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
