package property

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/propdesk/propdesk/internal/db"
)

func TestInsertAndGetByID(t *testing.T) {
	repo := testRepo(t)

	price := int64(9500000)
	p := &Record{
		ProjectName: "Sunrise Towers",
		Area:        "Uppal",
		Price:       &price,
		BHK:         "2",
		ReraNumber:  "P024-TEST-1",
	}

	saved, err := repo.Insert(p)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if saved.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if saved.ProjectName != "Sunrise Towers" {
		t.Errorf("project = %q, want %q", saved.ProjectName, "Sunrise Towers")
	}

	got, err := repo.GetByID(saved.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Price == nil || *got.Price != price {
		t.Errorf("price = %v, want %d", got.Price, price)
	}
	if got.BHK != "2" {
		t.Errorf("bhk = %q, want %q", got.BHK, "2")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetByID(9999)
	if err == nil {
		t.Fatal("expected error for missing property")
	}
}

func TestUpsertRefreshesSameUnit(t *testing.T) {
	repo := testRepo(t)

	oldPrice := int64(8000000)
	first, err := repo.Insert(&Record{
		ProjectName: "Sunrise Towers", Area: "Uppal", BHK: "2", Price: &oldPrice,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	newPrice := int64(8500000)
	updated, err := repo.Upsert(&Record{
		ProjectName: "sunrise towers", Area: "UPPAL", BHK: "2", Price: &newPrice,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if updated.ID != first.ID {
		t.Errorf("upsert created new row %d, want refresh of %d", updated.ID, first.ID)
	}
	if updated.Price == nil || *updated.Price != newPrice {
		t.Errorf("price = %v, want %d", updated.Price, newPrice)
	}

	all, err := repo.List(ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d rows, want 1", len(all))
	}
}

func TestUpsertKeepsConfigurationsSeparate(t *testing.T) {
	repo := testRepo(t)

	for _, bhk := range []string{"2", "3"} {
		if _, err := repo.Upsert(&Record{
			ProjectName: "Sunrise Towers", Area: "Uppal", BHK: bhk,
		}); err != nil {
			t.Fatalf("upsert %s bhk: %v", bhk, err)
		}
	}

	all, err := repo.List(ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d rows, want 2 (one per configuration)", len(all))
	}
}

func TestListFilters(t *testing.T) {
	repo := testRepo(t)

	seed := []struct {
		project, area, bhk string
		price              int64
	}{
		{"Sunrise Towers", "Uppal", "2", 6000000},
		{"Moonrise Heights", "Nagole Main Road", "3", 9500000},
		{"Lake View", "Nagole", "2", 13000000},
	}
	for i, s := range seed {
		price := s.price
		if _, err := repo.Insert(&Record{
			ProjectName: s.project, Area: s.area, BHK: s.bhk, Price: &price,
		}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	maxPrice := int64(10000000)
	tests := []struct {
		name string
		opts ListOptions
		want int
	}{
		{"all", ListOptions{}, 3},
		{"area substring", ListOptions{Area: "nagole"}, 2},
		{"bhk exact", ListOptions{BHK: "2"}, 2},
		{"max price", ListOptions{MaxPrice: &maxPrice}, 2},
		{"combined", ListOptions{Area: "Nagole", BHK: "2"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(tt.opts)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	repo := testRepo(t)

	saved, err := repo.Insert(&Record{ProjectName: "Gone Soon", Area: "Uppal"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.Delete(saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.GetByID(saved.ID); err == nil {
		t.Fatal("expected error after delete")
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := testRepo(t)

	if err := repo.Delete(9999); err == nil {
		t.Fatal("expected error for missing property")
	}
}

func TestImportCSV(t *testing.T) {
	repo := testRepo(t)

	csvData := strings.Join([]string{
		"project_name,area,price,bhk,size_min,size_max,property_type,possession,builder,rera_number",
		"Sunrise Towers,Uppal,6000000,2,1100,1250,Apartment,2027,Sunrise Infra,P024-1",
		"Moonrise Heights,Nagole,9500000,3,1500,1700,Apartment,RTM,Moonrise Group,",
		",MissingProject,100,2,,,,,,",     // skipped: no project name
		"Bad Price,Uppal,abc,2,,,,,,",     // skipped: unparseable price
		"Negative,Uppal,-5,2,,,,,,",       // skipped: non-positive price
		"Lake View,Nagole,13000000,2,,,Villa,01/06/27,Lake Dev,P024-2",
	}, "\n")

	n, err := repo.ImportCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 3 {
		t.Errorf("imported %d rows, want 3", n)
	}

	all, err := repo.List(ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d rows, want 3", len(all))
	}
}

func TestImportCSVMissingHeader(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.ImportCSV(strings.NewReader("price,bhk\n100,2\n"))
	if err == nil {
		t.Fatal("expected error for missing required columns")
	}
}

func TestImportCSVIsRepeatable(t *testing.T) {
	repo := testRepo(t)

	csvData := "project_name,area,price,bhk\nSunrise Towers,Uppal,6000000,2\n"

	for i := 0; i < 2; i++ {
		if _, err := repo.ImportCSV(strings.NewReader(csvData)); err != nil {
			t.Fatalf("import %d: %v", i, err)
		}
	}

	all, err := repo.List(ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d rows after re-import, want 1", len(all))
	}
}

func testRepo(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return NewRepository(d)
}
