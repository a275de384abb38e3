//go:build integration

package e2e

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/CuraLedger-Health/subscription-service/internal/records"
	"github.com/CuraLedger-Health/subscription-service/internal/testutil"
)

func TestE2E_UserProfileLifecycle(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	token := ts.GeneratePatientToken(t, "profile@test.com")
	client := ts.NewClient(token)

	// Register a profile
	resp := client.POST(t, "/users", map[string]interface{}{
		"username": "profile-user",
		"age":      29,
		"location": "Utrecht",
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created records.UserSuccessResponse
	testutil.DecodeJSON(t, resp, &created)
	if created.User == nil || created.User.ID == 0 {
		t.Fatal("Expected created user with id")
	}
	if created.User.CreatedBy != "profile@test.com" {
		t.Errorf("Expected created_by from token email, got %s", created.User.CreatedBy)
	}

	// The profile resolves from the token's email claim
	resp = client.GET(t, "/users/me")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var me records.UserSuccessResponse
	testutil.DecodeJSON(t, resp, &me)
	if me.User == nil || me.User.ID != created.User.ID {
		t.Errorf("Expected /users/me to return user %d", created.User.ID)
	}
	if me.User.Username != "profile-user" {
		t.Errorf("Expected username profile-user, got %s", me.User.Username)
	}
}

func TestE2E_CurrentUserWithoutProfile(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	token := ts.GeneratePatientToken(t, "nobody@test.com")
	client := ts.NewClient(token)

	resp := client.GET(t, "/users/me")
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestE2E_MedicalRecordLifecycle(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	token := ts.GeneratePatientToken(t, "recorder@test.com")
	client := ts.NewClient(token)
	createProfile(t, client, "recorder")

	resp := client.GET(t, "/users/me")
	var me records.UserSuccessResponse
	testutil.DecodeJSON(t, resp, &me)

	// Create a record
	resp = client.POST(t, "/records", map[string]interface{}{
		"user_id":         me.User.ID,
		"record_name":     "Blood panel 2024",
		"analysis_result": "All markers within range",
		"kanban_records":  "{}",
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created records.RecordSuccessResponse
	testutil.DecodeJSON(t, resp, &created)
	if created.Record == nil || created.Record.ID == 0 {
		t.Fatal("Expected created record with id")
	}
	ts.MockPublisher.AssertEventPublished(t, "record.created")

	// Listing is scoped to the caller
	resp = client.GET(t, "/records")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var list records.RecordListResponse
	testutil.DecodeJSON(t, resp, &list)
	if list.Total != 1 {
		t.Fatalf("Expected 1 record, got %d", list.Total)
	}
	if list.Records[0].RecordName != "Blood panel 2024" {
		t.Errorf("Unexpected record name %s", list.Records[0].RecordName)
	}

	// Partial update
	resp = client.PUT(t, fmt.Sprintf("/records/%d", created.Record.ID), map[string]interface{}{
		"analysis_result": "Follow-up recommended",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var updated records.RecordSuccessResponse
	testutil.DecodeJSON(t, resp, &updated)
	if updated.Record.AnalysisResult != "Follow-up recommended" {
		t.Errorf("Expected updated analysis result, got %s", updated.Record.AnalysisResult)
	}
	if updated.Record.RecordName != "Blood panel 2024" {
		t.Errorf("Untouched field changed: %s", updated.Record.RecordName)
	}
	ts.MockPublisher.AssertEventPublished(t, "record.updated")
}

func TestE2E_RecordsScopedToOwner(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	alice := ts.NewClient(ts.GeneratePatientToken(t, "alice@test.com"))
	createProfile(t, alice, "alice")

	bob := ts.NewClient(ts.GeneratePatientToken(t, "bob@test.com"))
	createProfile(t, bob, "bob")

	resp := alice.GET(t, "/users/me")
	var me records.UserSuccessResponse
	testutil.DecodeJSON(t, resp, &me)

	resp = alice.POST(t, "/records", map[string]interface{}{
		"user_id":     me.User.ID,
		"record_name": "Private scan",
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = bob.GET(t, "/records")
	var list records.RecordListResponse
	testutil.DecodeJSON(t, resp, &list)
	if list.Total != 0 {
		t.Errorf("Expected bob to see no records, got %d", list.Total)
	}
}
