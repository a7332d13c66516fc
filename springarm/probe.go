package springarm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNoWorld        = errors.New("springarm: no collision world")
	ErrUnknownChannel = errors.New("springarm: unknown collision channel")
)

// Channel selects which shapes a sweep collides with.
type Channel uint8

const (
	ChannelVisibility Channel = iota
	ChannelCamera
	ChannelWorldStatic
	ChannelWorldDynamic
	ChannelPawn
)

var channelNames = [...]string{
	ChannelVisibility:   "visibility",
	ChannelCamera:       "camera",
	ChannelWorldStatic:  "world_static",
	ChannelWorldDynamic: "world_dynamic",
	ChannelPawn:         "pawn",
}

// Bit returns the channel as a single-bit mask.
func (c Channel) Bit() uint {
	return 1 << uint(c)
}

func (c Channel) String() string {
	if int(c) < len(channelNames) {
		return channelNames[c]
	}
	return fmt.Sprintf("channel(%d)", c)
}

func ParseChannel(s string) (Channel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range channelNames {
		if n == name {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, s)
}

func (c Channel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Channel) UnmarshalText(text []byte) error {
	parsed, err := ParseChannel(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ChannelMask is a set of channels, one bit each.
type ChannelMask uint

func MaskOf(channels ...Channel) ChannelMask {
	var m ChannelMask
	for _, c := range channels {
		m |= ChannelMask(c.Bit())
	}
	return m
}

func (m ChannelMask) Has(c Channel) bool {
	return uint(m)&c.Bit() != 0
}

// HitResult describes the first blocking contact of a sweep. Location is the
// center of the swept sphere at contact; ImpactPoint is on the surface hit.
type HitResult struct {
	Blocking    bool
	Location    mgl64.Vec3
	ImpactPoint mgl64.Vec3
	Normal      mgl64.Vec3
	Time        float64
}

// CollisionProbe answers swept-sphere queries against a collision world.
// Implementations must allow concurrent sweeps.
type CollisionProbe interface {
	SweepSphere(origin, dest mgl64.Vec3, radius float64, channel Channel) (HitResult, error)
}

// ProbeFunc adapts a function to CollisionProbe.
type ProbeFunc func(origin, dest mgl64.Vec3, radius float64, channel Channel) (HitResult, error)

func (f ProbeFunc) SweepSphere(origin, dest mgl64.Vec3, radius float64, channel Channel) (HitResult, error) {
	if f == nil {
		return HitResult{}, ErrNoWorld
	}
	return f(origin, dest, radius, channel)
}

// BlendFunc picks the final camera location from the uncollided location and
// the sweep result.
type BlendFunc func(desired, hit mgl64.Vec3, blocked bool, dt float64) mgl64.Vec3

// SelectBlend snaps to the hit location when blocked.
func SelectBlend(desired, hit mgl64.Vec3, blocked bool, _ float64) mgl64.Vec3 {
	if blocked {
		return hit
	}
	return desired
}
