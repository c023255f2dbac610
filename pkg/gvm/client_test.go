package gvm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvmrun/gvmrun/pkg/gmp"
)

// scriptedBridge replays canned responses keyed by command prefix and
// records every command it sees, in order.
type scriptedBridge struct {
	t        *testing.T
	commands []string
	// respond maps a command prefix to a queue of replies. A reply may be
	// an error.
	respond map[string][]any
}

func newScriptedBridge(t *testing.T) *scriptedBridge {
	return &scriptedBridge{t: t, respond: map[string][]any{}}
}

func (b *scriptedBridge) on(prefix string, replies ...any) {
	b.respond[prefix] = append(b.respond[prefix], replies...)
}

func (b *scriptedBridge) Send(ctx context.Context, command string) (string, error) {
	b.commands = append(b.commands, command)
	for prefix, queue := range b.respond {
		if !strings.HasPrefix(command, prefix) || len(queue) == 0 {
			continue
		}
		reply := queue[0]
		b.respond[prefix] = queue[1:]
		switch v := reply.(type) {
		case string:
			return v, nil
		case error:
			return "", v
		}
	}
	b.t.Fatalf("unexpected command: %s", command)
	return "", nil
}

// instantWait makes polling run without real sleeps.
func instantWait(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

func newTestClient(bridge gmp.Bridge) *Client {
	return NewClient(bridge).WithWaitFunc(instantWait)
}

func TestCleanup_EmptyDaemonIsNoOp(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<get_tasks/>", `<get_tasks_response status="200"/>`)
	bridge.on("<get_targets/>", `<get_targets_response status="200"/>`)

	err := newTestClient(bridge).Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"<get_tasks/>", "<get_targets/>"}, bridge.commands)
}

func TestCleanup_DeletesEveryTaskAndTarget(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<get_tasks/>",
		`<get_tasks_response><task id="t1"/><task id="t2"/></get_tasks_response>`)
	bridge.on("<delete_task", "<ok/>", "<ok/>")
	bridge.on("<get_targets/>",
		`<get_targets_response><target id="g1"/></get_targets_response>`)
	bridge.on("<delete_target", "<ok/>")

	err := newTestClient(bridge).Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"<get_tasks/>",
		`<delete_task task_id="t1" ultimate="true"/>`,
		`<delete_task task_id="t2" ultimate="true"/>`,
		"<get_targets/>",
		`<delete_target target_id="g1" ultimate="true"/>`,
	}, bridge.commands)
}

func TestCleanup_DeleteFailureAbortsRemainder(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<get_tasks/>",
		`<get_tasks_response><task id="t1"/><task id="t2"/></get_tasks_response>`)
	bridge.on("<delete_task", &gmp.CommandError{Output: "Internal error", Err: errors.New("exit status 1")})

	err := newTestClient(bridge).Cleanup(context.Background())
	require.Error(t, err)

	var cmdErr *gmp.CommandError
	require.ErrorAs(t, err, &cmdErr)
	// t2 and the target listing never happen
	assert.Len(t, bridge.commands, 2)
}

func TestCleanup_SwallowedAuthFailureCountsAsEmpty(t *testing.T) {
	bridge := newScriptedBridge(t)
	// Transient auth swallow leaves an empty reply behind.
	bridge.on("<get_tasks/>", "")
	bridge.on("<get_targets/>", "")

	err := newTestClient(bridge).Cleanup(context.Background())
	require.NoError(t, err)
}

func TestCreateTarget_ExtractsAssignedID(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<create_target>",
		`<create_target_response status="201" id="254cd3ef-bbe1-4d58-859d-21b8d0c046c6"/>`)

	id, err := newTestClient(bridge).CreateTarget(context.Background(), gmp.TargetSpec{
		Name:       "scan-ab12cd34",
		Hosts:      "192.168.1.10",
		PortListID: "730ef368-57e2-11e1-a90f-406186ea4fc5",
		AliveTests: "ICMP Ping",
	})
	require.NoError(t, err)
	assert.Equal(t, "254cd3ef-bbe1-4d58-859d-21b8d0c046c6", id)
}

func TestCreateTarget_MissingIDIsAnError(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<create_target>", `<create_target_response status="400"/>`)

	_, err := newTestClient(bridge).CreateTarget(context.Background(), gmp.TargetSpec{Hosts: "10.0.0.1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id")
}

func TestCreateTask_ExtractsAssignedID(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<create_task>",
		`<create_task_response status="201" id="task-uuid"/>`)

	id, err := newTestClient(bridge).CreateTask(context.Background(), "scan-ab12cd34", "profile-id", "target-id")
	require.NoError(t, err)
	assert.Equal(t, "task-uuid", id)

	require.Len(t, bridge.commands, 1)
	assert.Contains(t, bridge.commands[0], `<target id="target-id">`)
	assert.Contains(t, bridge.commands[0], `<config id="profile-id">`)
}

func TestStartTask_SendsStartCommand(t *testing.T) {
	bridge := newScriptedBridge(t)
	bridge.on("<start_task", `<start_task_response status="202"/>`)

	err := newTestClient(bridge).StartTask(context.Background(), "task-uuid")
	require.NoError(t, err)
	assert.Equal(t, []string{fmt.Sprintf("<start_task task_id=%q/>", "task-uuid")}, bridge.commands)
}
