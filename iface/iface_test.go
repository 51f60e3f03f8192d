package iface

import (
	"testing"

	"github.com/cpmech/mfront/behaviour"
	"github.com/stretchr/testify/require"
)

type recordingInterface struct {
	name      string
	handedOff *bool
}

func (i *recordingInterface) Name() string { return i.name }

func (i *recordingInterface) HandOff(desc *behaviour.Description) error {
	*i.handedOff = true
	return nil
}

func TestRegisterAndNewRoundTrips(t *testing.T) {
	handedOff := false
	Register("recording", func() (Interface, error) {
		return &recordingInterface{name: "recording", handedOff: &handedOff}, nil
	})
	require.Contains(t, Registered(), "recording")

	i, err := New("recording")
	require.NoError(t, err)
	require.NoError(t, i.HandOff(nil))
	require.True(t, handedOff)
}

func TestNewRejectsUnregisteredInterface(t *testing.T) {
	_, err := New("does-not-exist")
	require.Error(t, err)
}
