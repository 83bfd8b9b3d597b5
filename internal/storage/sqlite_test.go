package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap/zaptest"

	"github.com/matsen/profiles/internal/profile"
)

// setupTestStore opens a fresh store in a temp directory.
func setupTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	s := New(filepath.Join(t.TempDir(), DefaultFileName), zaptest.NewLogger(t), opts...)
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(mobile string) profile.Record {
	return profile.Record{
		FirstName:          "Naman",
		LastName:           "Mishra",
		MobileNumber:       mobile,
		DateOfBirth:        "1999-04-02T00:00:00.000Z",
		HighestEducation:   "Graduate",
		Gender:             "Male",
		Address:            "CDAC, Pune Maharastra",
		ProfilePicLocation: "Pictures/IMG_20240401100509123_1a2b3c4d.jpg",
		Location:           profile.At(18.535265017926786, 73.81119289603281),
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateClosed, "closed"},
		{StateOpening, "opening"},
		{StateOpen, "open"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestOpenClose_Lifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	s := New(path, zaptest.NewLogger(t))

	if s.State() != StateClosed {
		t.Fatalf("State() = %v before Open, want closed", s.State())
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on closed store error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.Open(ctx); err != nil {
			t.Fatalf("Open() call %d error = %v", i+1, err)
		}
		if s.State() != StateOpen {
			t.Errorf("State() = %v after Open, want open", s.State())
		}
	}

	if _, err := s.Create(ctx, testRecord("9988776655")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.Close(); err != nil {
			t.Errorf("Close() call %d error = %v", i+1, err)
		}
	}
	if s.State() != StateClosed {
		t.Errorf("State() = %v after Close, want closed", s.State())
	}

	// data survives a reopen
	if err := s.Open(ctx); err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	n, err := s.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count() after reopen = %d, %v; want 1", n, err)
	}
}

func TestClosedStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), DefaultFileName), zaptest.NewLogger(t))

	if _, err := s.Create(ctx, testRecord("9988776655")); !IsStorageUnavailable(err) {
		t.Errorf("Create() error = %v, want ErrStorageUnavailable", err)
	}
	if _, err := s.FindByKey(ctx, "9988776655"); !IsStorageUnavailable(err) {
		t.Errorf("FindByKey() error = %v, want ErrStorageUnavailable", err)
	}
	if _, err := s.ListAll(ctx); !IsStorageUnavailable(err) {
		t.Errorf("ListAll() error = %v, want ErrStorageUnavailable", err)
	}
	if _, err := s.Count(ctx); !IsStorageUnavailable(err) {
		t.Errorf("Count() error = %v, want ErrStorageUnavailable", err)
	}
}

func TestOpen_UnreachablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", DefaultFileName)
	s := New(path, zaptest.NewLogger(t))

	err := s.Open(context.Background())
	if !IsStorageUnavailable(err) {
		t.Fatalf("Open() error = %v, want ErrStorageUnavailable", err)
	}
	if s.State() != StateClosed {
		t.Errorf("State() = %v after failed Open, want closed", s.State())
	}
}

func TestCreateFindByKey_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	want := testRecord("9988776655")
	id, err := s.Create(ctx, want)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id <= 0 {
		t.Errorf("Create() id = %d, want positive", id)
	}

	got, err := s.FindByKey(ctx, want.MobileNumber)
	if err != nil {
		t.Fatalf("FindByKey() error = %v", err)
	}
	if got == nil {
		t.Fatal("FindByKey() = nil, want record")
	}
	if !got.Equal(want) {
		t.Errorf("FindByKey() = %+v, want %+v", *got, want)
	}
}

func TestCreate_OptionalFieldsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	want := profile.Record{
		FirstName:    "Jo",
		MobileNumber: "0000000000",
		Location:     profile.At(0, 0),
	}
	if _, err := s.Create(ctx, want); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := s.FindByKey(ctx, want.MobileNumber)
	if err != nil || got == nil {
		t.Fatalf("FindByKey() = %v, %v", got, err)
	}
	if !got.Equal(want) {
		t.Errorf("FindByKey() = %+v, want %+v", *got, want)
	}
}

func TestFindByKey_Absent(t *testing.T) {
	s := setupTestStore(t)
	got, err := s.FindByKey(context.Background(), "1111111111")
	if err != nil {
		t.Fatalf("FindByKey() error = %v", err)
	}
	if got != nil {
		t.Errorf("FindByKey() = %+v, want nil", got)
	}
}

func TestCreate_DuplicateKey(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	if _, err := s.Create(ctx, testRecord("9988776655")); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	second := testRecord("9988776655")
	second.FirstName = "Other"
	_, err := s.Create(ctx, second)
	if !IsDuplicateKey(err) {
		t.Fatalf("second Create() error = %v, want ErrDuplicateKey", err)
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 1 || all[0].FirstName != "Naman" {
		t.Errorf("ListAll() = %+v, want only the first record", all)
	}
}

func TestCreate_MalformedRecord(t *testing.T) {
	s := setupTestStore(t)

	tests := []struct {
		name   string
		mutate func(*profile.Record)
	}{
		{"empty first name", func(r *profile.Record) { r.FirstName = "  " }},
		{"short mobile", func(r *profile.Record) { r.MobileNumber = "12345" }},
		{"unset location", func(r *profile.Record) { r.Location = profile.Coordinate{} }},
		{"latitude out of range", func(r *profile.Record) { r.Location = profile.At(95, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRecord("9988776655")
			tt.mutate(&r)
			if _, err := s.Create(context.Background(), r); !IsMalformedRecord(err) {
				t.Errorf("Create() error = %v, want ErrMalformedRecord", err)
			}
		})
	}

	n, _ := s.Count(context.Background())
	if n != 0 {
		t.Errorf("Count() = %d after rejected creates, want 0", n)
	}
}

type fakeAssets map[string]bool

func (f fakeAssets) Exists(rel string) bool { return f[rel] }

func TestCreate_PictureMustResolve(t *testing.T) {
	ctx := context.Background()
	stored := "Pictures/IMG_stored.jpg"
	s := setupTestStore(t, WithAssetChecker(fakeAssets{stored: true}))

	r := testRecord("9988776655")
	r.ProfilePicLocation = "Pictures/IMG_missing.jpg"
	if _, err := s.Create(ctx, r); !IsMalformedRecord(err) {
		t.Errorf("Create() with missing picture error = %v, want ErrMalformedRecord", err)
	}

	r.ProfilePicLocation = stored
	if _, err := s.Create(ctx, r); err != nil {
		t.Errorf("Create() with stored picture error = %v", err)
	}

	r2 := testRecord("9988776656")
	r2.ProfilePicLocation = ""
	if _, err := s.Create(ctx, r2); err != nil {
		t.Errorf("Create() without picture error = %v", err)
	}
}

func TestCreate_NoAssetCheckerSkipsPictureCheck(t *testing.T) {
	s := setupTestStore(t)

	r := testRecord("9988776655")
	r.ProfilePicLocation = "Pictures/IMG_missing.jpg"
	if _, err := s.Create(context.Background(), r); err != nil {
		t.Errorf("Create() without checker error = %v, want nil", err)
	}
}

func TestListAll_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	mobiles := []string{"9000000003", "9000000001", "9000000002"}
	for _, m := range mobiles {
		if _, err := s.Create(ctx, testRecord(m)); err != nil {
			t.Fatalf("Create(%s) error = %v", m, err)
		}
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != len(mobiles) {
		t.Fatalf("ListAll() returned %d records, want %d", len(all), len(mobiles))
	}
	for i, m := range mobiles {
		if all[i].MobileNumber != m {
			t.Errorf("ListAll()[%d].MobileNumber = %s, want %s", i, all[i].MobileNumber, m)
		}
	}

	// the returned slice is a snapshot
	all[0].FirstName = "Changed"
	again, _ := s.ListAll(ctx)
	if again[0].FirstName != "Naman" {
		t.Error("mutating ListAll() result changed stored data")
	}
}

func TestExistsCount(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	if ok, err := s.Exists(ctx, "9988776655"); err != nil || ok {
		t.Errorf("Exists() on empty store = %v, %v; want false", ok, err)
	}
	if _, err := s.Create(ctx, testRecord("9988776655")); err != nil {
		t.Fatal(err)
	}
	if ok, err := s.Exists(ctx, "9988776655"); err != nil || !ok {
		t.Errorf("Exists() = %v, %v; want true", ok, err)
	}
	if n, err := s.Count(ctx); err != nil || n != 1 {
		t.Errorf("Count() = %d, %v; want 1", n, err)
	}
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	mock.ExpectPing()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS User").WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewFromDB(db, zaptest.NewLogger(t))
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s, mock
}

func TestCreate_DriverErrors(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO User").WillReturnError(errors.New("disk I/O error"))
	_, err := s.Create(ctx, testRecord("9988776655"))
	if err == nil {
		t.Fatal("Create() error = nil, want driver error")
	}
	if IsDuplicateKey(err) || IsMalformedRecord(err) || IsStorageUnavailable(err) {
		t.Errorf("Create() error = %v, misclassified", err)
	}

	mock.ExpectExec("INSERT INTO User").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: User.mobileNumber (2067)"))
	if _, err := s.Create(ctx, testRecord("9988776655")); !IsDuplicateKey(err) {
		t.Errorf("Create() error = %v, want ErrDuplicateKey", err)
	}

	mock.ExpectExec("INSERT INTO User").WillReturnResult(sqlmock.NewResult(42, 1))
	id, err := s.Create(ctx, testRecord("9988776655"))
	if err != nil || id != 42 {
		t.Errorf("Create() = %d, %v; want 42", id, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindByKey_NullLocationIsMalformed(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"firstName", "lastName", "mobileNumber", "dateOfBirth",
		"highestEducation", "gender", "address", "profilePicLocation",
		"latitude", "longitude",
	}).AddRow("Naman", "", "9988776655", nil, nil, nil, nil, nil, nil, 73.8)
	mock.ExpectQuery("SELECT .* FROM User WHERE mobileNumber = ?").
		WithArgs("9988776655").
		WillReturnRows(rows)

	_, err := s.FindByKey(context.Background(), "9988776655")
	if !IsMalformedRecord(err) {
		t.Errorf("FindByKey() error = %v, want ErrMalformedRecord", err)
	}
}

func TestOpen_DiscardsUnresponsiveHandle(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectPing().WillReturnError(errors.New("connection lost"))
	mock.ExpectClose()

	// the injected handle is gone once closed, so reopening cannot succeed
	err := s.Open(context.Background())
	if !IsStorageUnavailable(err) {
		t.Fatalf("Open() error = %v, want ErrStorageUnavailable", err)
	}
	if s.State() != StateClosed {
		t.Errorf("State() = %v, want closed", s.State())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOpen_LiveHandleIsReused(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectPing()
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open() on open store error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
