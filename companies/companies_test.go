package companies

import (
	"testing"

	"vantage/models"
	"vantage/users"
)

func TestNewCompanyWiresOwner(t *testing.T) {
	owner, err := users.NewUser("a@b.com", "A", "B", "temp-password")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}

	if owner.Role != models.RoleUser {
		t.Errorf("owner role = %q, want %q", owner.Role, models.RoleUser)
	}
	if owner.Status != models.StatusPending {
		t.Errorf("owner status = %q, want %q", owner.Status, models.StatusPending)
	}
	if !owner.FirstLogin {
		t.Error("owner must start with the first-login flag set")
	}
	if owner.Deleted {
		t.Error("owner must not start deleted")
	}

	company := NewCompany("Acme", "acme@x.com", &owner)

	if company.Owner.UserID != owner.UserID {
		t.Errorf("company owner uid = %q, want %q", company.Owner.UserID, owner.UserID)
	}
	if owner.CompanyID != company.CompanyID {
		t.Errorf("owner back-reference = %q, want %q", owner.CompanyID, company.CompanyID)
	}
	if company.Owner.CompanyID != company.CompanyID {
		t.Errorf("embedded owner companyid = %q, want %q", company.Owner.CompanyID, company.CompanyID)
	}
	if company.Name != "Acme" || company.Email != "acme@x.com" {
		t.Errorf("company fields = %q / %q", company.Name, company.Email)
	}
	if company.Deleted {
		t.Error("company must not start deleted")
	}
	if company.Members == nil || len(company.Members) != 0 {
		t.Errorf("company must start with an empty members list, got %v", company.Members)
	}
	if company.CreatedAt.IsZero() {
		t.Error("company creation time must be stamped")
	}
}
