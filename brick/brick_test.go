package brick

import (
	"testing"

	"github.com/cpmech/mfront/behaviour"
	"github.com/stretchr/testify/require"
)

type recordingBrick struct {
	name    string
	options map[string]string
	calls   *[]string
}

func (b *recordingBrick) Name() string { return b.name }

func (b *recordingBrick) CompleteVariableDeclaration(desc *behaviour.Description) error {
	*b.calls = append(*b.calls, "complete")
	return nil
}

func (b *recordingBrick) EndTreatment(desc *behaviour.Description) error {
	*b.calls = append(*b.calls, "end")
	return nil
}

func (b *recordingBrick) ExtendKeywords(register func(keyword string, handler KeywordHandler)) {
	register("@Demo", func(desc *behaviour.Description, args []string) error {
		*b.calls = append(*b.calls, "keyword:"+b.options["flavour"])
		return nil
	})
}

func TestRegisterAndNewRoundTrips(t *testing.T) {
	calls := &[]string{}
	Register("recording", func(options map[string]string) (Brick, error) {
		return &recordingBrick{name: "recording", options: options, calls: calls}, nil
	})
	require.Contains(t, Registered(), "recording")

	b, err := New("recording", map[string]string{"flavour": "standard"})
	require.NoError(t, err)
	require.Equal(t, "recording", b.Name())

	require.NoError(t, b.CompleteVariableDeclaration(nil))
	require.NoError(t, b.EndTreatment(nil))
	require.Equal(t, []string{"complete", "end"}, *calls)
}

func TestNewRejectsUnregisteredBrick(t *testing.T) {
	_, err := New("does-not-exist", nil)
	require.Error(t, err)
}
