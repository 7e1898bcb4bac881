//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"
	"institute-app-go/internal/app"
	"institute-app-go/internal/config"
	"institute-app-go/internal/db"
	academicsrepo "institute-app-go/internal/repository/postgres/academics"
	admissionrepo "institute-app-go/internal/repository/postgres/admission"
	feesrepo "institute-app-go/internal/repository/postgres/fees"
	ledgerrepo "institute-app-go/internal/repository/postgres/ledger"
	receiptsrepo "institute-app-go/internal/repository/postgres/receipts"
	"institute-app-go/internal/transport/httpserver"
	"institute-app-go/pkg/logger"
)

const (
	staffID      = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	superAdminID = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	cfg := config.Config{
		DB: config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{
			ActorHeader: "X-Actor-ID",
			RoleHeader:  "X-Actor-Role",
		},
	}
	log := logger.Nop()

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	services := app.NewServices(app.Repositories{
		Fees:      feesrepo.NewPostgres(dbConn),
		Ledger:    ledgerrepo.NewPostgres(dbConn),
		Admission: admissionrepo.NewPostgres(dbConn),
		Academics: academicsrepo.NewPostgres(dbConn),
		Receipts:  receiptsrepo.NewPostgres(dbConn, "E2E"),
	}, log)

	router := httpserver.NewRouter(cfg, app.NewHandlers(services, log))
	server := httptest.NewServer(router)

	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE enrollments, batches, transactions, students, families, fee_structures, receipt_sequences CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, actorID, role string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actorID != "" {
		req.Header.Set("X-Actor-ID", actorID)
		req.Header.Set("X-Actor-Role", role)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

func decode(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type familyResponse struct {
	ID      string `json:"id"`
	Balance int64  `json:"balance"`
}

type transactionResponse struct {
	ID            string  `json:"id"`
	IsVoid        bool    `json:"is_void"`
	ReceiptNumber *string `json:"receipt_number"`
}

type recordedResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Balance     *int64              `json:"balance"`
}

type admissionResponse struct {
	Student struct {
		ID string `json:"id"`
	} `json:"student"`
	Family  familyResponse `json:"family"`
	Balance int64          `json:"balance"`
}

type reconcileResponse struct {
	Balance     int64 `json:"balance"`
	LedgerTotal int64 `json:"ledger_total"`
	Consistent  bool  `json:"consistent"`
}

type idResponse struct {
	ID string `json:"id"`
}

func admit(t *testing.T, env *testEnv, client *http.Client, phone, date string) admissionResponse {
	t.Helper()
	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admissions", staffID, "staff", map[string]interface{}{
		"family_name":  "Verma",
		"phone":        phone,
		"student_name": "Kabir",
		"class_name":   "Class 2",
		"joining_date": date,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admit: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var admitted admissionResponse
	decode(t, body, &admitted)
	return admitted
}

func TestE2ELedgerFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	admitted := admit(t, env, client, "9100000001", "2026-06-20")
	if admitted.Balance != -440 {
		t.Fatalf("expected balance -440, got %d", admitted.Balance)
	}
	familyID := admitted.Family.ID

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/payments", staffID, "staff", map[string]interface{}{
		"family_id": familyID,
		"amount":    400,
		"channel":   "UPI",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("payment: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var payment recordedResponse
	decode(t, body, &payment)
	if payment.Balance == nil || *payment.Balance != -40 {
		t.Fatalf("expected balance -40, got %v", payment.Balance)
	}
	if payment.Transaction.ReceiptNumber == nil {
		t.Fatalf("expected receipt number")
	}

	voidURL := env.server.URL + "/api/transactions/" + payment.Transaction.ID + "/void"
	resp, body = requestJSON(t, client, http.MethodPost, voidURL, superAdminID, "super-admin", map[string]string{"reason": "Wrong family"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("void: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, voidURL, superAdminID, "super-admin", map[string]string{"reason": "Wrong family"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second void: expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/"+familyID+"/reconcile", staffID, "staff", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reconcile: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var rec reconcileResponse
	decode(t, body, &rec)
	if !rec.Consistent || rec.Balance != -440 {
		t.Fatalf("expected consistent balance -440, got %+v", rec)
	}
}

func TestE2EConcurrentPayments(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 10 * time.Second}
	familyID := admit(t, env, client, "9100000002", "2026-03-01").Family.ID

	const payments = 20
	var wg sync.WaitGroup
	receipts := make(chan string, payments)
	errs := make(chan error, payments)
	for i := 0; i < payments; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, _ := json.Marshal(map[string]interface{}{"family_id": familyID, "amount": 10, "channel": "CASH"})
			req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/api/payments", bytes.NewReader(data))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Actor-ID", staffID)
			req.Header.Set("X-Actor-Role", "staff")
			resp, err := client.Do(req)
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				errs <- fmt.Errorf("status %d", resp.StatusCode)
				return
			}
			var payment recordedResponse
			if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
				errs <- err
				return
			}
			receipts <- *payment.Transaction.ReceiptNumber
		}()
	}
	wg.Wait()
	close(errs)
	close(receipts)

	for err := range errs {
		t.Fatalf("payment failed: %v", err)
	}
	seen := make(map[string]struct{}, payments)
	for receipt := range receipts {
		if _, dup := seen[receipt]; dup {
			t.Fatalf("duplicate receipt %s", receipt)
		}
		seen[receipt] = struct{}{}
	}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/"+familyID, staffID, "staff", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get family: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var family familyResponse
	decode(t, body, &family)
	if family.Balance != -1200+payments*10 {
		t.Fatalf("expected balance %d, got %d", -1200+payments*10, family.Balance)
	}
}

func TestE2EEnrollmentConflict(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	studentID := admit(t, env, client, "9100000003", "2026-03-01").Student.ID

	createBatch := func(name, schedule string) string {
		resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/batches", staffID, "admin", map[string]interface{}{
			"name":     name,
			"fee":      300,
			"schedule": schedule,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create batch: expected 201, got %d: %s", resp.StatusCode, string(body))
		}
		var batch idResponse
		decode(t, body, &batch)
		return batch.ID
	}

	science := createBatch("Science", "TTS 09:00-10:30")
	music := createBatch("Music", "Sat 10:00-11:00")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/batches/"+science+"/enrollments", staffID, "staff", map[string]string{"student_id": studentID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("enroll: expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/batches/"+music+"/enrollments", staffID, "staff", map[string]string{"student_id": studentID})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("enroll: expected 409, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	decode(t, body, &errResp)
	if errResp.Error.Message != "Time Conflict" {
		t.Fatalf("expected Time Conflict, got %q", errResp.Error.Message)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/families/"+studentFamily(t, env, client, studentID)+"/total-due", staffID, "staff", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("total due: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var due struct {
		TotalDue int64 `json:"total_due"`
	}
	decode(t, body, &due)
	if due.TotalDue != 1500 {
		t.Fatalf("expected total due 1500, got %d", due.TotalDue)
	}
}

func studentFamily(t *testing.T, env *testEnv, client *http.Client, studentID string) string {
	t.Helper()
	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/students/"+studentID, staffID, "staff", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get student: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var student struct {
		FamilyID string `json:"family_id"`
	}
	decode(t, body, &student)
	return student.FamilyID
}
