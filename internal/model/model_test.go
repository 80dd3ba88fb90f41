package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRole(t *testing.T) {
	if !RoleUser.IsValid() || !RoleAdmin.IsValid() {
		t.Fatal("expected built-in roles to be valid")
	}
	if Role("ROOT").IsValid() || Role("user").IsValid() {
		t.Fatal("expected unknown and lowercase roles to be invalid")
	}

	if !(Principal{UserID: "u", Role: RoleAdmin}).IsAdmin() {
		t.Error("expected admin principal")
	}
	if (Principal{UserID: "u", Role: RoleUser}).IsAdmin() {
		t.Error("expected non-admin principal")
	}

	ac := &AuthContext{KeyID: "k", UserID: "u", Role: RoleUser}
	if p := ac.Principal(); p.UserID != "u" || p.Role != RoleUser {
		t.Errorf("unexpected principal %+v", p)
	}
}

func TestProduct(t *testing.T) {
	p := &Product{ID: "p", UserID: "owner", FolderIDs: []string{"f1", "f2"}}

	if !p.OwnedBy("owner") || p.OwnedBy("other") {
		t.Error("OwnedBy mismatch")
	}
	if !p.InFolder("f2") || p.InFolder("f3") {
		t.Error("InFolder mismatch")
	}
}

func TestProductJSONFieldNames(t *testing.T) {
	p := Product{ID: "p", LowPrice: 10, MyPrice: 5, FolderIDs: []string{}, CreatedAt: time.Unix(0, 0).UTC()}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"lprice":10`, `"myprice":5`, `"folderIds":[]`, `"userId"`, `"modifiedAt"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("expected %s in %s", field, data)
		}
	}
}

func TestAPIKey_NeverSerializesHash(t *testing.T) {
	now := time.Now()
	k := APIKey{ID: "k", KeyHash: "$argon2id$secret", RevokedAt: &now}
	if !k.IsRevoked() {
		t.Error("expected revoked key")
	}

	data, err := json.Marshal(k)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "argon2id") {
		t.Fatalf("hash leaked into JSON: %s", data)
	}
}
