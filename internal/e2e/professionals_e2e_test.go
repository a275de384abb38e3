//go:build integration

package e2e

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/CuraLedger-Health/subscription-service/internal/professionals"
	"github.com/CuraLedger-Health/subscription-service/internal/testutil"
)

func createTestProfessional(t *testing.T, client *testutil.HTTPTestClient, name, email string) *professionals.Professional {
	t.Helper()

	resp := client.POST(t, "/professionals", map[string]interface{}{
		"name":                name,
		"specialization":      "Cardiology",
		"qualifications":      []string{"MD", "FACC"},
		"years_of_experience": 12,
		"contact_email":       email,
		"contact_phone":       "+31 6 1234 5678",
		"eth_address":         "0x2222222222222222222222222222222222222222",
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created struct {
		Success      bool                        `json:"success"`
		Professional *professionals.Professional `json:"professional"`
	}
	testutil.DecodeJSON(t, resp, &created)
	if created.Professional == nil || created.Professional.ID == 0 {
		t.Fatal("Expected created professional with id")
	}
	return created.Professional
}

func TestE2E_ProfessionalDirectoryLifecycle(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	admin := ts.NewClient(ts.GenerateAdminToken(t))

	pro := createTestProfessional(t, admin, "Dr. Vries", "vries@clinic.test")
	ts.MockPublisher.AssertEventPublished(t, "professional.created")

	// Fetch by id
	resp := admin.GET(t, fmt.Sprintf("/professionals/%d", pro.ID))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var fetched struct {
		Professional *professionals.Professional `json:"professional"`
	}
	testutil.DecodeJSON(t, resp, &fetched)
	if fetched.Professional.Name != "Dr. Vries" {
		t.Errorf("Expected Dr. Vries, got %s", fetched.Professional.Name)
	}
	if len(fetched.Professional.Qualifications) != 2 {
		t.Errorf("Expected 2 qualifications, got %v", fetched.Professional.Qualifications)
	}

	// Partial update
	resp = admin.PUT(t, fmt.Sprintf("/professionals/%d", pro.ID), map[string]interface{}{
		"years_of_experience": 13,
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var updated struct {
		Professional *professionals.Professional `json:"professional"`
	}
	testutil.DecodeJSON(t, resp, &updated)
	if updated.Professional.YearsOfExperience != 13 {
		t.Errorf("Expected 13 years of experience, got %d", updated.Professional.YearsOfExperience)
	}
	if updated.Professional.Specialization != "Cardiology" {
		t.Errorf("Untouched field changed: %s", updated.Professional.Specialization)
	}
	ts.MockPublisher.AssertEventPublished(t, "professional.updated")

	// Delete
	resp = admin.DELETE(t, fmt.Sprintf("/professionals/%d", pro.ID))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = admin.GET(t, fmt.Sprintf("/professionals/%d", pro.ID))
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestE2E_ProfessionalDuplicateEmail(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	admin := ts.NewClient(ts.GenerateAdminToken(t))
	createTestProfessional(t, admin, "Dr. First", "shared@clinic.test")

	resp := admin.POST(t, "/professionals", map[string]interface{}{
		"name":           "Dr. Second",
		"specialization": "Oncology",
		"contact_email":  "shared@clinic.test",
	})
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
	resp.Body.Close()
}

func TestE2E_ProfessionalListPagination(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	admin := ts.NewClient(ts.GenerateAdminToken(t))
	for i := 0; i < 7; i++ {
		createTestProfessional(t, admin, fmt.Sprintf("Dr. Nr%d", i), fmt.Sprintf("nr%d@clinic.test", i))
	}

	// Patients can browse the directory
	patient := ts.NewClient(ts.GeneratePatientToken(t, "browser@test.com"))

	resp := patient.GET(t, "/professionals?page=2&limit=3")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var list professionals.ProfessionalListResponse
	testutil.DecodeJSON(t, resp, &list)

	if len(list.Professionals) != 3 {
		t.Errorf("Expected 3 professionals on page 2, got %d", len(list.Professionals))
	}
	if list.Pagination.TotalRecords != 7 {
		t.Errorf("Expected total 7, got %d", list.Pagination.TotalRecords)
	}
	if list.Pagination.TotalPages != 3 {
		t.Errorf("Expected 3 pages, got %d", list.Pagination.TotalPages)
	}
	if !list.Pagination.HasPrevious || !list.Pagination.HasNext {
		t.Errorf("Expected both neighbors from page 2, got %+v", list.Pagination)
	}
}

func TestE2E_PatientCannotManageProfessionals(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	patient := ts.NewClient(ts.GeneratePatientToken(t, "nopower@test.com"))

	resp := patient.POST(t, "/professionals", map[string]interface{}{
		"name":           "Dr. Rogue",
		"specialization": "Surgery",
		"contact_email":  "rogue@clinic.test",
	})
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	resp.Body.Close()

	resp = patient.DELETE(t, "/professionals/1")
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	resp.Body.Close()
}
