package xl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfxlabs/xenops/pkg/connector"
)

func listClient(names ...string) *Client {
	out := "Name ID Mem VCPUs State Time(s)\n"
	for i, name := range names {
		out += name + " " + string(rune('1'+i)) + " 1024 1 r----- 1.0\n"
	}
	f := &fakeRunner{
		ExecFunc: func(ctx context.Context, bin string, args []string, opts *connector.ExecOptions) ([]byte, []byte, error) {
			return []byte(out), nil, nil
		},
	}
	return newTestClient(f)
}

func TestUniqueDomName(t *testing.T) {
	c := listClient("agent1", "agent3", "other7")
	name, err := c.UniqueDomName(context.Background(), "agent")
	require.NoError(t, err)
	assert.Equal(t, "agent4", name)
}

func TestUniqueDomNameNoMatches(t *testing.T) {
	c := listClient("windev1", "other7")
	name, err := c.UniqueDomName(context.Background(), "agent")
	require.NoError(t, err)
	assert.Equal(t, "agent1", name)
}

func TestUniqueDomNameIgnoresNonNumericSuffix(t *testing.T) {
	c := listClient("agent1", "agent-old", "agentx")
	name, err := c.UniqueDomName(context.Background(), "agent")
	require.NoError(t, err)
	assert.Equal(t, "agent2", name)
}

func TestUniqueDomNameEmptyList(t *testing.T) {
	c := listClient()
	name, err := c.UniqueDomName(context.Background(), "agent")
	require.NoError(t, err)
	assert.Equal(t, "agent1", name)
}
