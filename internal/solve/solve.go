// Package solve answers both parts of the packet decoder puzzle from raw input text.
package solve

import (
	"math/big"
	"strings"

	"github.com/danmuck/packetctl/internal/packet"
	"github.com/rs/zerolog/log"
)

// Answer holds both parts for one transmission.
type Answer struct {
	VersionSum uint64
	Value      *big.Int
	Padding    int
}

// Run decodes input once and computes both parts. Surrounding whitespace,
// such as the loader's trailing newline, is ignored.
func Run(input string, opts packet.DecodeOptions) (Answer, error) {
	res, err := Decode(input, opts)
	if err != nil {
		return Answer{}, err
	}
	value, err := packet.Evaluate(res.Root)
	if err != nil {
		log.Error().Err(err).Msg("solve.Run evaluate failed")
		return Answer{}, err
	}
	ans := Answer{
		VersionSum: packet.VersionSum(res.Root),
		Value:      value,
		Padding:    res.Padding.Len(),
	}
	log.Debug().
		Uint64("version_sum", ans.VersionSum).
		Str("value", ans.Value.String()).
		Msg("solve.Run ok")
	return ans, nil
}

// Decode normalizes input and decodes the single transmission it carries.
func Decode(input string, opts packet.DecodeOptions) (packet.Result, error) {
	hex := strings.TrimSpace(input)
	res, err := packet.DecodeHexWith(hex, opts)
	if err != nil {
		log.Error().Err(err).Int("hex_len", len(hex)).Msg("solve.Decode failed")
		return packet.Result{}, err
	}
	log.Debug().
		Int("bits", res.Consumed+res.Padding.Len()).
		Int("consumed", res.Consumed).
		Int("padding", res.Padding.Len()).
		Str("root", res.Root.Kind().String()).
		Msg("solve.Decode ok")
	return res, nil
}

// Part1 is the version sum of the transmission.
func Part1(input string) (uint64, error) {
	res, err := Decode(input, packet.DefaultDecodeOptions())
	if err != nil {
		return 0, err
	}
	return packet.VersionSum(res.Root), nil
}

// Part2 is the evaluated value of the transmission.
func Part2(input string) (*big.Int, error) {
	res, err := Decode(input, packet.DefaultDecodeOptions())
	if err != nil {
		return nil, err
	}
	return packet.Evaluate(res.Root)
}
