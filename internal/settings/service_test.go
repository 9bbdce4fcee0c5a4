package settings

import (
	"context"
	"errors"
	"testing"

	"go_sitebuilder/internal/dnscheck"
	"go_sitebuilder/internal/httpx"
	"go_sitebuilder/internal/model"
)

type fakeRepo struct {
	tenant        *model.Tenant
	settings      *model.Settings
	subTaken      bool
	domainTaken   bool
	saved         *model.Settings
	tenantDomain  string
	domainUpdated bool
	updateErr     error
}

func (r *fakeRepo) TenantByID(id int) (*model.Tenant, error) {
	if r.tenant != nil && r.tenant.ID == id {
		return r.tenant, nil
	}
	return nil, nil
}

func (r *fakeRepo) SettingsByTenant(tenantID int) (*model.Settings, error) {
	return r.settings, nil
}

func (r *fakeRepo) SubdomainTaken(label string, excludeTenantID int) (bool, error) {
	return r.subTaken, nil
}

func (r *fakeRepo) DomainTaken(domain string, excludeTenantID int) (bool, error) {
	return r.domainTaken, nil
}

func (r *fakeRepo) SaveSettings(st *model.Settings) error {
	saved := *st
	r.saved = &saved
	return nil
}

func (r *fakeRepo) UpdateTenantDomain(tenantID int, domain string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.tenantDomain = domain
	r.domainUpdated = true
	return nil
}

type fakeVerifier struct {
	result      dnscheck.Result
	checked     []string
	transitions int
}

func (v *fakeVerifier) Check(ctx context.Context, domain string) dnscheck.Result {
	v.checked = append(v.checked, domain)
	return v.result
}

func (v *fakeVerifier) RecordTransition(ctx context.Context, tenantID int, domain string, status model.DNSStatus, message string) {
	v.transitions++
}

func newTestService(repo *fakeRepo, verifier *fakeVerifier) *Service {
	return NewService(repo, verifier, nil, "begrat.com", "https", "139.59.3.58")
}

func baseTenant() *model.Tenant {
	return &model.Tenant{
		BaseModel: model.BaseModel{ID: 5},
		StoreName: "Pooja's Store",
		Slug:      "pooja-s-store",
		Domain:    "begrat.com/pooja-s-store",
	}
}

func strPtr(s string) *string { return &s }

func typePtr(t model.DomainType) *model.DomainType { return &t }

func TestApply_SubdomainMode(t *testing.T) {
	repo := &fakeRepo{tenant: baseTenant()}
	verifier := &fakeVerifier{}
	svc := newTestService(repo, verifier)

	got, err := svc.Apply(context.Background(), 5, UpdateRequest{
		DomainType: typePtr(model.DomainTypeSubDomain),
		SubDomain:  strPtr("Pooja"),
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if got.SubDomain != "pooja" {
		t.Errorf("sub_domain = %q, want lowercased %q", got.SubDomain, "pooja")
	}
	if got.DNSStatus != model.DNSStatusVerified {
		t.Errorf("dns_status = %s, subdomains verify immediately", got.DNSStatus)
	}
	if got.WebsiteLink != "https://pooja.begrat.com" {
		t.Errorf("website_link = %q", got.WebsiteLink)
	}
	if repo.tenantDomain != "pooja.begrat.com" {
		t.Errorf("tenant domain = %q, want pooja.begrat.com", repo.tenantDomain)
	}
	if len(verifier.checked) != 0 {
		t.Error("subdomain mode must not trigger DNS verification")
	}
}

func TestApply_SubdomainTaken(t *testing.T) {
	repo := &fakeRepo{tenant: baseTenant(), subTaken: true}
	svc := newTestService(repo, &fakeVerifier{})

	_, err := svc.Apply(context.Background(), 5, UpdateRequest{
		DomainType: typePtr(model.DomainTypeSubDomain),
		SubDomain:  strPtr("pooja"),
	})

	var appErr *httpx.AppError
	if !errors.As(err, &appErr) || appErr.Code != httpx.CodeSubdomainExists {
		t.Fatalf("err = %v, want code %d", err, httpx.CodeSubdomainExists)
	}
	if repo.saved != nil {
		t.Error("rejected update must not persist settings")
	}
}

func TestApply_CustomDomainVerified(t *testing.T) {
	repo := &fakeRepo{tenant: baseTenant()}
	verifier := &fakeVerifier{result: dnscheck.Result{Status: model.DNSStatusVerified}}
	svc := newTestService(repo, verifier)

	got, err := svc.Apply(context.Background(), 5, UpdateRequest{
		DomainType:        typePtr(model.DomainTypeCustom),
		PrimaryDomainName: strPtr("WWW.PoojaStore.com"),
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if got.PrimaryDomainName != "poojastore.com" {
		t.Errorf("primary_domain_name = %q, want normalized poojastore.com", got.PrimaryDomainName)
	}
	if got.DNSStatus != model.DNSStatusVerified {
		t.Errorf("dns_status = %s, want verified", got.DNSStatus)
	}
	if repo.tenantDomain != "poojastore.com" {
		t.Errorf("tenant domain = %q", repo.tenantDomain)
	}
	if len(verifier.checked) != 1 || verifier.checked[0] != "poojastore.com" {
		t.Errorf("checked domains = %v, want [poojastore.com]", verifier.checked)
	}
	if verifier.transitions != 1 {
		t.Errorf("transitions recorded = %d, want 1", verifier.transitions)
	}
}

func TestApply_CustomDomainUnverifiedRejected(t *testing.T) {
	repo := &fakeRepo{tenant: baseTenant()}
	verifier := &fakeVerifier{result: dnscheck.Result{Status: model.DNSStatusUnverified}}
	svc := newTestService(repo, verifier)

	_, err := svc.Apply(context.Background(), 5, UpdateRequest{
		DomainType:        typePtr(model.DomainTypeCustom),
		PrimaryDomainName: strPtr("poojastore.com"),
	})

	var appErr *httpx.AppError
	if !errors.As(err, &appErr) || appErr.Code != httpx.CodeDNSNotVerified {
		t.Fatalf("err = %v, want code %d", err, httpx.CodeDNSNotVerified)
	}
	if repo.saved != nil {
		t.Error("rejected custom domain must not persist settings")
	}
	if repo.domainUpdated {
		t.Error("rejected custom domain must not touch the tenant routing key")
	}
	if verifier.transitions != 0 {
		t.Error("rejected update must not record a transition")
	}
}

func TestApply_CustomDomainUnderBaseDomainRejected(t *testing.T) {
	repo := &fakeRepo{tenant: baseTenant()}
	svc := newTestService(repo, &fakeVerifier{result: dnscheck.Result{Status: model.DNSStatusVerified}})

	_, err := svc.Apply(context.Background(), 5, UpdateRequest{
		DomainType:        typePtr(model.DomainTypeCustom),
		PrimaryDomainName: strPtr("shop.begrat.com"),
	})

	var appErr *httpx.AppError
	if !errors.As(err, &appErr) || appErr.Code != httpx.CodeDomainInvalid {
		t.Fatalf("err = %v, want code %d", err, httpx.CodeDomainInvalid)
	}
}

func TestApply_CustomDomainTaken(t *testing.T) {
	repo := &fakeRepo{tenant: baseTenant(), domainTaken: true}
	verifier := &fakeVerifier{result: dnscheck.Result{Status: model.DNSStatusVerified}}
	svc := newTestService(repo, verifier)

	_, err := svc.Apply(context.Background(), 5, UpdateRequest{
		DomainType:        typePtr(model.DomainTypeCustom),
		PrimaryDomainName: strPtr("poojastore.com"),
	})

	var appErr *httpx.AppError
	if !errors.As(err, &appErr) || appErr.Code != httpx.CodeDomainExists {
		t.Fatalf("err = %v, want code %d", err, httpx.CodeDomainExists)
	}
	if len(verifier.checked) != 0 {
		t.Error("uniqueness must be checked before DNS verification")
	}
}

func TestApply_NoOpCustomDomainSkipsVerification(t *testing.T) {
	repo := &fakeRepo{
		tenant: baseTenant(),
		settings: &model.Settings{
			BaseModel:         model.BaseModel{ID: 9},
			TenantID:          5,
			DomainType:        model.DomainTypeCustom,
			PrimaryDomainName: "poojastore.com",
			DNSStatus:         model.DNSStatusVerified,
			WebsiteLink:       "https://poojastore.com",
		},
	}
	verifier := &fakeVerifier{result: dnscheck.Result{Status: model.DNSStatusUnverified}}
	svc := newTestService(repo, verifier)

	got, err := svc.Apply(context.Background(), 5, UpdateRequest{
		DomainType:        typePtr(model.DomainTypeCustom),
		PrimaryDomainName: strPtr("poojastore.com"),
		SiteName:          strPtr("Pooja Store"),
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(verifier.checked) != 0 {
		t.Error("unchanged custom domain must not be re-verified on content updates")
	}
	if got.SiteName != "Pooja Store" {
		t.Errorf("site_name = %q, content fields must merge", got.SiteName)
	}
}

func TestApply_SwitchToCustomDomainClearsSubdomain(t *testing.T) {
	repo := &fakeRepo{
		tenant: baseTenant(),
		settings: &model.Settings{
			BaseModel:  model.BaseModel{ID: 9},
			TenantID:   5,
			DomainType: model.DomainTypeSubDomain,
			SubDomain:  "pooja",
			DNSStatus:  model.DNSStatusVerified,
		},
	}
	verifier := &fakeVerifier{result: dnscheck.Result{Status: model.DNSStatusVerified}}
	svc := newTestService(repo, verifier)

	got, err := svc.Apply(context.Background(), 5, UpdateRequest{
		DomainType:        typePtr(model.DomainTypeCustom),
		PrimaryDomainName: strPtr("poojastore.com"),
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got.SubDomain != "" {
		t.Errorf("sub_domain = %q after switching to custom_domain, the old label must be released", got.SubDomain)
	}
	if got.PrimaryDomainName != "poojastore.com" {
		t.Errorf("primary_domain_name = %q", got.PrimaryDomainName)
	}
}

func TestApply_SwitchToSubdomainClearsCustomDomain(t *testing.T) {
	repo := &fakeRepo{
		tenant: baseTenant(),
		settings: &model.Settings{
			BaseModel:         model.BaseModel{ID: 9},
			TenantID:          5,
			DomainType:        model.DomainTypeCustom,
			PrimaryDomainName: "poojastore.com",
			DNSStatus:         model.DNSStatusVerified,
		},
	}
	svc := newTestService(repo, &fakeVerifier{})

	got, err := svc.Apply(context.Background(), 5, UpdateRequest{
		DomainType: typePtr(model.DomainTypeSubDomain),
		SubDomain:  strPtr("pooja"),
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got.PrimaryDomainName != "" {
		t.Errorf("primary_domain_name = %q after switching to sub_domain, the old domain must be released", got.PrimaryDomainName)
	}
	if got.SubDomain != "pooja" {
		t.Errorf("sub_domain = %q", got.SubDomain)
	}
}

func TestApply_ContentUpdateOnUnverifiedDomainKeepsStatus(t *testing.T) {
	repo := &fakeRepo{
		tenant: baseTenant(),
		settings: &model.Settings{
			BaseModel:         model.BaseModel{ID: 9},
			TenantID:          5,
			DomainType:        model.DomainTypeCustom,
			PrimaryDomainName: "poojastore.com",
			DNSStatus:         model.DNSStatusUnverified,
			WebsiteLink:       "https://poojastore.com",
		},
	}
	repo.tenant.Domain = "poojastore.com"
	verifier := &fakeVerifier{result: dnscheck.Result{Status: model.DNSStatusUnverified}}
	svc := newTestService(repo, verifier)

	got, err := svc.Apply(context.Background(), 5, UpdateRequest{
		SiteName: strPtr("Pooja Store"),
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(verifier.checked) != 0 {
		t.Error("content-only updates must not re-run verification")
	}
	if got.DNSStatus != model.DNSStatusUnverified {
		t.Errorf("dns_status = %s, want unverified preserved", got.DNSStatus)
	}
	if got.SiteName != "Pooja Store" {
		t.Errorf("site_name = %q", got.SiteName)
	}
}

func TestApply_PathModeClearsDomainFields(t *testing.T) {
	repo := &fakeRepo{
		tenant: baseTenant(),
		settings: &model.Settings{
			BaseModel:         model.BaseModel{ID: 9},
			TenantID:          5,
			DomainType:        model.DomainTypeCustom,
			PrimaryDomainName: "poojastore.com",
			DNSStatus:         model.DNSStatusVerified,
		},
	}
	svc := newTestService(repo, &fakeVerifier{})

	got, err := svc.Apply(context.Background(), 5, UpdateRequest{
		DomainType: typePtr(model.DomainTypePath),
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got.SubDomain != "" || got.PrimaryDomainName != "" {
		t.Error("path mode must clear subdomain and custom domain fields")
	}
	if got.WebsiteLink != "https://begrat.com/pooja-s-store" {
		t.Errorf("website_link = %q", got.WebsiteLink)
	}
	if repo.tenantDomain != "begrat.com/pooja-s-store" {
		t.Errorf("tenant domain = %q", repo.tenantDomain)
	}
}

func TestApply_TenantDomainUpdateFailureIsHardError(t *testing.T) {
	repo := &fakeRepo{tenant: baseTenant(), updateErr: errors.New("deadlock")}
	svc := newTestService(repo, &fakeVerifier{})

	_, err := svc.Apply(context.Background(), 5, UpdateRequest{
		DomainType: typePtr(model.DomainTypeSubDomain),
		SubDomain:  strPtr("pooja"),
	})

	var appErr *httpx.AppError
	if !errors.As(err, &appErr) || appErr.Code != httpx.CodeDatabaseError {
		t.Fatalf("err = %v, want code %d", err, httpx.CodeDatabaseError)
	}
}

func TestGet_DefaultsWhenUnset(t *testing.T) {
	repo := &fakeRepo{tenant: baseTenant()}
	svc := newTestService(repo, &fakeVerifier{})

	got, err := svc.Get(5)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.DomainType != model.DomainTypePath {
		t.Errorf("domain_type = %s, want path default", got.DomainType)
	}
	if got.WebsiteLink != "https://begrat.com/pooja-s-store" {
		t.Errorf("website_link = %q", got.WebsiteLink)
	}
}
