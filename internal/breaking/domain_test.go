package breaking

import (
	"testing"

	"guardrails/internal/change"
)

func TestDomainDetectorMatching(t *testing.T) {
	tests := []struct {
		detector string
		path     string
		want     bool
	}{
		{"database-schema", "/db/migrations/001_init.sql", true},
		{"database-schema", "/db/migration/001_init.ts", true},
		{"database-schema", "/src/utils/a.ts", false},
		{"api-contract", "/src/api/tabs.ts", true},
		{"api-contract", "/src/tabs.api.ts", true},
		{"shared-types", "/src/types/tab.d.ts", true},
		{"shared-types", "/src/types/tab.ts", true},
		{"payment-logic", "/src/services/PaymentService.ts", true},
		{"business-hours", "/src/hooks/useIsOpen.ts", true},
		{"loyalty-token", "/src/services/LoyaltyService.ts", true},
		{"loyalty-token", "/src/pages/Menu.tsx", false},
	}

	byName := map[string]*DomainDetector{}
	for _, d := range DomainDetectors() {
		byName[d.Name()] = d
	}

	for _, tt := range tests {
		d, ok := byName[tt.detector]
		if !ok {
			t.Fatalf("unknown detector %q", tt.detector)
		}
		if got := d.Matches(tt.path); got != tt.want {
			t.Errorf("%s.Matches(%q) = %v, want %v", tt.detector, tt.path, got, tt.want)
		}
	}
}

func TestDatabaseDetectorFlagsDroppedTable(t *testing.T) {
	d := databaseDetector()
	findings := d.Validate(
		"CREATE TABLE tabs (id uuid);\nCREATE TABLE orders (id uuid);\n",
		"CREATE TABLE tabs (id uuid);\n",
	)
	if len(findings) != 1 {
		t.Fatalf("findings = %v", findings)
	}
	f := findings[0]
	if f.Pattern != "table-definition" || f.Severity != SeverityCritical {
		t.Errorf("finding = %+v", f)
	}
	if f.Before != 2 || f.After != 1 {
		t.Errorf("counts = %d/%d, want 2/1", f.Before, f.After)
	}
}

func TestDatabaseDetectorIgnoresAddedTable(t *testing.T) {
	d := databaseDetector()
	findings := d.Validate(
		"CREATE TABLE tabs (id uuid);\n",
		"CREATE TABLE tabs (id uuid);\nCREATE TABLE orders (id uuid);\n",
	)
	if len(findings) != 0 {
		t.Errorf("added table should not be flagged: %v", findings)
	}
}

func TestAPIDetectorFlagsRemovedRoute(t *testing.T) {
	d := apiContractDetector()
	findings := d.Validate(
		"router.get('/tabs', list);\nrouter.post('/tabs', create);\n",
		"router.get('/tabs', list);\n",
	)
	if len(findings) != 1 || findings[0].Pattern != "http-method" {
		t.Fatalf("findings = %v", findings)
	}
	if findings[0].Severity != SeverityCritical {
		t.Errorf("severity = %s", findings[0].Severity)
	}
}

func TestSharedTypesDetectorFlagsRequiredField(t *testing.T) {
	d := sharedTypesDetector()
	findings := d.Validate(
		"export interface Tab { id: string; note?: string; }\n",
		"export interface Tab { id: string; note: string; }\n",
	)
	if len(findings) != 1 || findings[0].Pattern != "optional-marker" {
		t.Fatalf("findings = %v", findings)
	}
}

func TestPaymentDetectorFlagsCalculationChange(t *testing.T) {
	d := paymentDetector()
	findings := d.Validate(
		"function calculateTotal(items) {}\nfunction validateCard(card) {}\n",
		"function calculateTotal(items) {}\nfunction calculateTip(total) {}\nfunction validateCard(card) {}\n",
	)
	if len(findings) != 1 || findings[0].Pattern != "calculation-block" {
		t.Fatalf("findings = %v", findings)
	}
}

func TestValidateDomainsAppliesOnlyMatchingDetectors(t *testing.T) {
	ch := &change.CodeChange{
		ID: "c1", Type: change.Modify,
		FilePath:   "/src/api/payments.ts",
		OldContent: "router.post('/pay', handler);\nfunction calculateFee(a) {}\n",
		NewContent: "function calculateFee(a, b) {}\nfunction computeSurcharge(a) {}\n",
	}
	findings := ValidateDomains(ch)

	detectors := map[string]bool{}
	for _, f := range findings {
		detectors[f.Detector] = true
	}
	if !detectors["api-contract"] {
		t.Errorf("api-contract findings missing: %v", findings)
	}
	if !detectors["payment-logic"] {
		t.Errorf("payment-logic findings missing: %v", findings)
	}
	if detectors["database-schema"] {
		t.Errorf("database detector should not apply: %v", findings)
	}
}
