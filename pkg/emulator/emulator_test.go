package emulator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pigeonworks-llc/gus-income/pkg/catalog"
	"github.com/pigeonworks-llc/gus-income/pkg/gus"
	"github.com/pigeonworks-llc/gus-income/pkg/income"
)

const testSeed = `
records:
  - {year: 2010, region: 33617, category: 7350010, value: "9.9"}
  - {year: 2010, region: 33617, category: 7350022, value: "100.5"}
  - {year: 2010, region: 33617, category: 7350022, value: "999"}
  - {year: 2011, region: 33617, category: 7350022, value: "110.2"}
  - {year: 2012, region: 33617, category: 7350022, value: "120.0"}
  - {year: 2012, region: 33929, category: 7361450, value: "42"}
faults:
  - {year: 2014, status: 503}
`

func setupServer(t *testing.T, seedYAML string) (*httptest.Server, *Store) {
	t.Helper()

	st, err := NewStore(filepath.Join(t.TempDir(), "data", "emulator.db"))
	if err != nil {
		t.Fatalf("NewStore() returned error: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	seed, err := ParseSeed([]byte(seedYAML))
	if err != nil {
		t.Fatalf("ParseSeed() returned error: %v", err)
	}
	if err := st.Apply(seed); err != nil {
		t.Fatalf("Apply() returned error: %v", err)
	}

	srv := httptest.NewServer(NewRouter(NewHandler(st, nil)))
	t.Cleanup(srv.Close)
	return srv, st
}

func newClient(srv *httptest.Server) *gus.Client {
	return gus.NewClient(gus.ClientConfig{APIURL: srv.URL + APIPrefix})
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t, testSeed)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, expected 200", resp.StatusCode)
	}
}

func TestFetchYearFromEmulator(t *testing.T) {
	srv, _ := setupServer(t, testSeed)

	data, err := newClient(srv).FetchYear(context.Background(), 2010, 33617, 7350022)
	if err != nil {
		t.Fatalf("FetchYear() returned error: %v", err)
	}
	if len(data.Data) != 3 {
		t.Fatalf("len(Data) = %d, expected 3", len(data.Data))
	}
	if data.PageCount != 1 {
		t.Errorf("PageCount = %d, expected 1", data.PageCount)
	}
	for i, r := range data.Data {
		if r.RowNumber != int64(i+1) || r.DateID != 2010 || r.VariableID != 1192 {
			t.Errorf("Data[%d] = %+v", i, r)
		}
	}
}

func TestUnseededYearIsEmpty(t *testing.T) {
	srv, _ := setupServer(t, testSeed)

	data, err := newClient(srv).FetchYear(context.Background(), 2020, 33617, 7350022)
	if err != nil {
		t.Fatalf("FetchYear() returned error: %v", err)
	}
	if data.Data == nil || len(data.Data) != 0 {
		t.Errorf("Data = %v, expected empty non-nil slice", data.Data)
	}
}

func TestInjectedFault(t *testing.T) {
	srv, _ := setupServer(t, testSeed)

	_, err := newClient(srv).FetchYear(context.Background(), 2014, 33617, 7350022)
	var statusErr *gus.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("FetchYear() error = %v, expected *gus.StatusError", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, expected 503", statusErr.StatusCode)
	}
}

func TestParameterValidation(t *testing.T) {
	srv, _ := setupServer(t, testSeed)

	valid := "id-zmienna=1192&id-przekroj=1046&id-okres=282&id-rok=2010"
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"valid", valid, http.StatusOK},
		{"wrong variable", "id-zmienna=1&id-przekroj=1046&id-okres=282&id-rok=2010", http.StatusBadRequest},
		{"wrong section", "id-zmienna=1192&id-przekroj=1&id-okres=282&id-rok=2010", http.StatusBadRequest},
		{"wrong period", "id-zmienna=1192&id-przekroj=1046&id-okres=1&id-rok=2010", http.StatusBadRequest},
		{"missing year", "id-zmienna=1192&id-przekroj=1046&id-okres=282", http.StatusBadRequest},
		{"non-numeric year", "id-zmienna=1192&id-przekroj=1046&id-okres=282&id-rok=abc", http.StatusBadRequest},
		{"page size too large", valid + "&ile-na-stronie=5001", http.StatusBadRequest},
		{"negative page", valid + "&numer-strony=-1", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + APIPrefix + gus.VariableDataSectionPath + "?" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, expected %d", resp.StatusCode, tt.status)
			}
			if tt.status == http.StatusOK {
				return
			}

			var errResp gus.ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if errResp.Error != "invalid_parameter" {
				t.Errorf("error = %q, expected invalid_parameter", errResp.Error)
			}
		})
	}
}

func TestPaging(t *testing.T) {
	srv, _ := setupServer(t, testSeed)

	tests := []struct {
		page     int
		size     int
		expected int
	}{
		{0, 2, 2},
		{1, 2, 1},
		{2, 2, 0},
	}

	for _, tt := range tests {
		client := gus.NewClient(gus.ClientConfig{APIURL: srv.URL + APIPrefix, PageSize: tt.size, Page: tt.page})
		data, err := client.FetchYear(context.Background(), 2010, 0, 0)
		if err != nil {
			t.Fatalf("page %d: FetchYear() returned error: %v", tt.page, err)
		}
		if len(data.Data) != tt.expected {
			t.Errorf("page %d: len(Data) = %d, expected %d", tt.page, len(data.Data), tt.expected)
		}
		if data.PageCount != 2 {
			t.Errorf("page %d: PageCount = %d, expected 2", tt.page, data.PageCount)
		}
	}
}

func TestCollectAgainstEmulator(t *testing.T) {
	srv, _ := setupServer(t, testSeed)

	collector := income.NewCollector(income.CollectorConfig{
		Catalogs: catalog.Default(),
		Fetcher:  newClient(srv),
		Years:    income.YearRange{From: 2010, To: 2012},
	})

	result, err := collector.Collect(context.Background(), "POLSKA", "Turystyka")
	if err != nil {
		t.Fatalf("Collect() returned error: %v", err)
	}

	expected := []string{"100.5", "110.2", "120"}
	if len(result.Series) != len(expected) {
		t.Fatalf("len(Series) = %d, expected %d", len(result.Series), len(expected))
	}
	for i, p := range result.Series {
		if p.Year != 2010+i || p.Value.String() != expected[i] {
			t.Errorf("Series[%d] = (%d, %s), expected (%d, %s)", i, p.Year, p.Value, 2010+i, expected[i])
		}
	}
}

func TestCollectMissingYearAgainstEmulator(t *testing.T) {
	srv, _ := setupServer(t, testSeed)

	collector := income.NewCollector(income.CollectorConfig{
		Fetcher: newClient(srv),
		Years:   income.YearRange{From: 2010, To: 2012},
	})

	_, err := collector.Collect(context.Background(), "ŚLĄSKIE", "Kultura")
	var missing *income.MissingDataError
	if !errors.As(err, &missing) {
		t.Fatalf("Collect() error = %v, expected *income.MissingDataError", err)
	}
	if missing.Year != 2010 {
		t.Errorf("Year = %d, expected 2010", missing.Year)
	}

	collector = income.NewCollector(income.CollectorConfig{
		Fetcher: newClient(srv),
		Years:   income.YearRange{From: 2010, To: 2012},
		Policy:  income.PolicySkip,
	})
	result, err := collector.Collect(context.Background(), "ŚLĄSKIE", "Kultura")
	if err != nil {
		t.Fatalf("Collect() with skip returned error: %v", err)
	}
	if len(result.Series) != 1 || len(result.Skipped) != 2 {
		t.Errorf("Series = %v, Skipped = %v", result.Series, result.Skipped)
	}
}

func TestStoreDatasetAndYears(t *testing.T) {
	_, st := setupServer(t, "variable: 7\nrecords:\n  - {year: 2015, region: 1, category: 2, value: \"3\"}\n  - {year: 2011, region: 1, category: 2, value: \"4\"}\n")

	ds, err := st.Dataset()
	if err != nil {
		t.Fatal(err)
	}
	if ds.VariableID != 7 || ds.SectionID != DefaultDataset.SectionID || ds.PeriodID != DefaultDataset.PeriodID {
		t.Errorf("Dataset() = %+v", ds)
	}

	years, err := st.Years()
	if err != nil {
		t.Fatal(err)
	}
	if len(years) != 2 || years[0] != 2011 || years[1] != 2015 {
		t.Errorf("Years() = %v, expected [2011 2015]", years)
	}

	if _, err := st.GetYear(2012); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetYear(2012) error = %v, expected ErrNotFound", err)
	}
}

func TestApplyReplacesPreviousSeed(t *testing.T) {
	_, st := setupServer(t, testSeed)

	seed, err := ParseSeed([]byte("records:\n  - {year: 2020, region: 1, category: 2, value: \"1\"}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Apply(seed); err != nil {
		t.Fatal(err)
	}

	years, err := st.Years()
	if err != nil {
		t.Fatal(err)
	}
	if len(years) != 1 || years[0] != 2020 {
		t.Errorf("Years() = %v, expected [2020]", years)
	}
	if status, _ := st.Fault(2014); status != 0 {
		t.Errorf("Fault(2014) = %d, expected cleared", status)
	}
}

func TestParseSeedErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "records: ["},
		{"missing region", "records:\n  - {year: 2010, category: 2, value: \"1\"}\n"},
		{"bad value", "records:\n  - {year: 2010, region: 1, category: 2, value: \"abc\"}\n"},
		{"bad fault", "faults:\n  - {year: 2010, status: 200}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSeed([]byte(tt.yaml)); err == nil {
				t.Error("ParseSeed() should fail")
			}
		})
	}
}
