package gmp

import (
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Bridge is the sole point of contact with the scanner daemon. It carries a
// single GMP command over one round trip and returns the raw XML reply.
//
// Error policy (global, not per call): output matching the known transient
// authentication race is swallowed and an empty reply is returned; every
// other command failure comes back as a *CommandError, which callers must
// treat as fatal to the run.
type Bridge interface {
	Send(ctx context.Context, command string) (string, error)
}

// runFunc executes one external command and returns its combined output.
// Injectable so bridge behavior is testable without gvm-cli installed.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecBridge reaches the daemon through the gvm-cli socket transport,
// optionally wrapped in `su` when the socket is owned by a service user.
type ExecBridge struct {
	socketPath string
	username   string
	password   string
	suUser     string
	logger     zerolog.Logger
	run        runFunc
}

// BridgeConfig holds the daemon access parameters for an ExecBridge.
type BridgeConfig struct {
	SocketPath string
	Username   string
	Password   string
	// SuUser, when set, wraps the gvm-cli invocation in `su - <user> -c`
	// so it runs as the account that owns the daemon socket.
	SuUser string
}

// NewExecBridge builds a bridge that shells out to gvm-cli.
func NewExecBridge(cfg BridgeConfig) *ExecBridge {
	return &ExecBridge{
		socketPath: cfg.SocketPath,
		username:   cfg.Username,
		password:   cfg.Password,
		suUser:     cfg.SuUser,
		logger:     log.With().Str("component", "gmp-bridge").Logger(),
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

// WithRunFunc overrides command execution, for tests.
func (b *ExecBridge) WithRunFunc(run runFunc) *ExecBridge {
	b.run = run
	return b
}

// Send carries one GMP command to the daemon and returns its reply.
func (b *ExecBridge) Send(ctx context.Context, command string) (string, error) {
	name, args := b.argv(command)

	b.logger.Debug().Str("command", command).Msg("sending gmp command")

	out, err := b.run(ctx, name, args...)
	if err != nil {
		if IsTransientAuth(string(out)) {
			b.logger.Debug().Msg("transient authentication failure, ignoring")
			return "", nil
		}
		return "", &CommandError{Command: command, Output: string(out), Err: err}
	}

	response := strings.TrimSpace(string(out))
	b.logger.Debug().Str("response", response).Msg("received gmp response")
	return response, nil
}

// argv assembles the gvm-cli invocation, su-wrapped when configured.
func (b *ExecBridge) argv(command string) (string, []string) {
	cli := []string{
		"gvm-cli",
		"--gmp-username", b.username,
		"--gmp-password", b.password,
		"socket",
		"--socketpath", b.socketPath,
		"--xml", command,
	}
	if b.suUser == "" {
		return cli[0], cli[1:]
	}
	return "su", []string{"-", b.suUser, "-c", shellJoin(cli)}
}

// shellJoin renders an argv as a single shell command line, single-quoting
// every argument. Needed only for the su -c wrapper.
func shellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}
