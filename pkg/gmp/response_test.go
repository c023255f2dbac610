package gmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_EmptyIsMalformed(t *testing.T) {
	_, err := ParseResponse("")
	require.ErrorIs(t, err, ErrMalformedResponse)

	_, err = ParseResponse("   \n ")
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseResponse_ExtractsAttributesAndText(t *testing.T) {
	resp, err := ParseResponse(`<get_tasks_response status="200">` +
		`<task id="t1"><status>Running</status><progress>55</progress></task>` +
		`</get_tasks_response>`)
	require.NoError(t, err)

	assert.Equal(t, "Running", resp.Text("//status"))
	assert.Equal(t, "55", resp.Text("//progress"))
	assert.Equal(t, "t1", resp.Text("//task/@id"))
	assert.Empty(t, resp.Text("//missing"))
}

func TestParseResponse_NodeLists(t *testing.T) {
	resp, err := ParseResponse(`<get_targets_response>` +
		`<target id="a"/><target id="b"/>` +
		`</get_targets_response>`)
	require.NoError(t, err)

	nodes := resp.Nodes("//get_targets_response/target")
	require.Len(t, nodes, 2)
	assert.Equal(t, "a", nodes[0].SelectAttr("id"))
	assert.Equal(t, "b", nodes[1].SelectAttr("id"))

	assert.Nil(t, resp.First("//get_tasks_response/task"))
}
