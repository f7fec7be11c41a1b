/*
Package tmtest provides helpers for testing against a running tendermint
node and application process.

Tests using these helpers are skipped when the required binaries are not
found in PATH. Set FORCE_TM_TEST=1 to fail instead, and TM_DEBUG=1 to see the
output of all processes.
*/
package tmtest

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/iov-one/sharepool/commands/server"
	"github.com/iov-one/sharepool/weavetest/assert"
	"github.com/tendermint/tendermint/libs/log"
)

// TestReporter is the minimal subset of testing.TB needed to run these test helpers
type TestReporter interface {
	assert.Tester
	Skipf(string, ...interface{})
	Logf(string, ...interface{})
}

// startupDelay is the time given to a process to open its sockets.
const startupDelay = 2 * time.Second

func lookPath(t TestReporter, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		if os.Getenv("FORCE_TM_TEST") != "1" {
			t.Skipf("%s binary not found. Set FORCE_TM_TEST=1 to fail this test.", name)
		} else {
			t.Fatalf("%s binary not found. Do not set FORCE_TM_TEST=1 to skip this test.", name)
		}
	}
	return path
}

func command(ctx context.Context, path string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, path, args...)
	if os.Getenv("TM_DEBUG") != "" {
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
	}
	return cmd
}

// InitHome creates a fresh home directory using tendermint init and writes
// given application state into its genesis file. The directory is removed
// by the returned cleanup function.
func InitHome(ctx context.Context, t TestReporter, appState interface{}) (home string, cleanup func()) {
	t.Helper()
	tmpath := lookPath(t, "tendermint")

	home, err := ioutil.TempDir("", "sharepool-tmtest")
	assert.Nil(t, err)
	cleanup = func() { os.RemoveAll(home) }

	if err := command(ctx, tmpath, "init", "--home", home).Run(); err != nil {
		cleanup()
		t.Fatalf("tendermint init failed: %s", err)
	}

	raw, err := json.Marshal(appState)
	assert.Nil(t, err)
	gen := func([]string) (json.RawMessage, error) { return raw, nil }
	if err := server.InitCmd(gen, log.NewNopLogger(), home, nil); err != nil {
		cleanup()
		t.Fatalf("cannot write app state: %+v", err)
	}
	return home, cleanup
}

// ChainID returns the chain ID tendermint init wrote to the genesis file.
func ChainID(t TestReporter, home string) string {
	t.Helper()
	raw, err := ioutil.ReadFile(server.GenesisPath(home))
	assert.Nil(t, err)
	var genesis struct {
		ChainID string `json:"chain_id"`
	}
	assert.Nil(t, json.Unmarshal(raw, &genesis))
	return genesis.ChainID
}

// RunTendermint starts a tendermint process. Returned cleanup function will
// ensure the process has stopped and will block until.
func RunTendermint(ctx context.Context, t TestReporter, home string) (cleanup func()) {
	t.Helper()
	return run(ctx, t, lookPath(t, "tendermint"), "node", "--home", home)
}

// RunApp is like RunTendermint, just executes the application executable,
// assuming a home directory prepared with InitHome.
func RunApp(ctx context.Context, t TestReporter, appName string, home string) (cleanup func()) {
	t.Helper()
	return run(ctx, t, lookPath(t, appName), "-home", home, "start")
}

func run(ctx context.Context, t TestReporter, path string, args ...string) (cleanup func()) {
	t.Helper()
	cmd := command(ctx, path, args...)
	if err := cmd.Start(); err != nil {
		t.Fatalf("%s process failed: %s", path, err)
	}

	time.Sleep(startupDelay)
	t.Logf("Running %s pid=%d", path, cmd.Process.Pid)

	// Return a cleanup function, that will wait for the process to stop.
	// We also auto-kill when the context is Done
	done := make(chan struct{})
	var once sync.Once
	cleanup = func() {
		once.Do(func() {
			t.Logf("%s cleanup called", path)
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			close(done)
		})
		<-done
	}
	go func() {
		select {
		case <-ctx.Done():
			cleanup()
		case <-done:
		}
	}()
	return cleanup
}
