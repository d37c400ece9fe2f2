package models

import (
	"testing"
	"time"
)

func TestUserRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleViewer.Valid() {
		t.Error("built-in roles must be valid")
	}
	if UserRole("superuser").Valid() {
		t.Error("unknown role accepted")
	}
}

func TestMatchStatusValid(t *testing.T) {
	if !MatchInProgress.Valid() || !MatchFinished.Valid() {
		t.Error("built-in statuses must be valid")
	}
	if MatchStatus("cancelled").Valid() {
		t.Error("unknown status accepted")
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	token := Token{ExpiresAt: now.Add(time.Minute)}
	if token.Expired(now) {
		t.Error("future token reported expired")
	}
	if !token.Expired(now.Add(2 * time.Minute)) {
		t.Error("past token reported valid")
	}
}

func TestPlayerAttachmentKeys(t *testing.T) {
	var player Player
	if keys := player.AttachmentKeys(); len(keys) != 0 {
		t.Errorf("keys on empty player = %v", keys)
	}

	for i, kind := range AttachmentKinds {
		player.SetAttachmentKey(kind, "key-"+string(kind))
		if got := len(player.AttachmentKeys()); got != i+1 {
			t.Errorf("after setting %s: keys = %d, want %d", kind, got, i+1)
		}
	}
	for _, kind := range AttachmentKinds {
		if player.AttachmentKey(kind) != "key-"+string(kind) {
			t.Errorf("%s key round trip failed", kind)
		}
	}
}
