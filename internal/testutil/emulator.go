// Package testutil connects store tests to the Firestore emulator. Tests
// skip when no emulator is listening.
package testutil

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
)

const (
	DefaultEmulatorHost = "127.0.0.1:7130"
	ProjectID           = "demo-donate-red"
)

// EmulatorHost returns FIRESTORE_EMULATOR_HOST when the caller already
// exported it (as `firebase emulators:exec` does), else DefaultEmulatorHost.
func EmulatorHost() string {
	if h := os.Getenv("FIRESTORE_EMULATOR_HOST"); h != "" {
		return h
	}
	return DefaultEmulatorHost
}

// EmulatorAvailable checks if the Firestore emulator is reachable.
func EmulatorAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", EmulatorHost())
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// SkipIfEmulatorUnavailable skips the test if the Firestore emulator is not running.
func SkipIfEmulatorUnavailable(t *testing.T) {
	t.Helper()
	if !EmulatorAvailable() {
		t.Skipf("Firestore emulator not available at %s", EmulatorHost())
	}
}

// SetupEmulator points Firebase clients at the emulator for the test's duration.
func SetupEmulator(t *testing.T) {
	t.Helper()
	t.Setenv("FIRESTORE_EMULATOR_HOST", EmulatorHost())
}

// FirestoreClient returns a client on an emptied emulator database. The
// database is emptied again and the client closed when the test ends.
func FirestoreClient(t *testing.T) *firestore.Client {
	t.Helper()
	SkipIfEmulatorUnavailable(t)
	SetupEmulator(t)
	ClearFirestore(t)

	client, err := firestore.NewClient(context.Background(), ProjectID)
	if err != nil {
		t.Fatalf("failed to create Firestore client: %v", err)
	}
	t.Cleanup(func() {
		ClearFirestore(t)
		_ = client.Close()
	})
	return client
}

// ClearFirestore removes every document (users, requests, subscriptions and
// the email index) from the emulator.
func ClearFirestore(t *testing.T) {
	t.Helper()
	url := fmt.Sprintf("http://%s/emulator/v1/projects/%s/databases/(default)/documents",
		EmulatorHost(), ProjectID)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to clear Firestore: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("failed to clear Firestore: status %d", resp.StatusCode)
	}
}
