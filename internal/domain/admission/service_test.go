package admission_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"institute-app-go/internal/domain/academics"
	"institute-app-go/internal/domain/admission"
	"institute-app-go/internal/domain/fees"
	"institute-app-go/internal/domain/ledger"
	"institute-app-go/internal/repository/inmemory"
)

type fixture struct {
	store     *inmemory.Store
	admission *admission.Service
	ledger    *ledger.Service
}

func newFixture(t *testing.T, receipts ledger.ReceiptGenerator) *fixture {
	t.Helper()
	store := inmemory.NewStore()
	factory := fees.NewFactory(store.Fees(), nil)
	if receipts == nil {
		receipts = inmemory.NewReceiptGenerator("RKI")
	}
	return &fixture{
		store:     store,
		admission: admission.NewService(store.Admission(), factory, receipts, nil),
		ledger:    ledger.NewService(store.Ledger(), factory, receipts, nil),
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestAdmissionPaymentVoidScenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	admitted, err := f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName:  "Sharma",
		Phone:       "98765 43210",
		StudentName: "Asha",
		ClassName:   "Class 2",
		JoiningDate: day(2026, time.March, 1),
		ActorID:     "desk-1",
	})
	require.NoError(t, err)

	assert.True(t, admitted.NewFamily)
	assert.Equal(t, "9876543210", admitted.Family.Phone)
	assert.False(t, admitted.Billing.IsProRated)
	require.NotNil(t, admitted.Charge)
	assert.Equal(t, ledger.Debit, admitted.Charge.Direction)
	assert.Equal(t, int64(1200), admitted.Charge.Amount)
	assert.Equal(t, "Admission fee for Asha (Standard billing cycle (1st of month).)", admitted.Charge.Description)
	assert.Equal(t, admitted.Student.ID, *admitted.Charge.StudentID)
	assert.Equal(t, int64(-1200), admitted.Balance)

	familyID := admitted.Family.ID
	payment, err := f.ledger.CollectPayment(ctx, ledger.PaymentInput{FamilyID: familyID, Amount: 500, Channel: ledger.ChannelCash})
	require.NoError(t, err)
	assert.Equal(t, int64(-700), *payment.Balance)

	voided, err := f.ledger.VoidTransaction(ctx, ledger.VoidInput{TransactionID: payment.Transaction.ID, Reason: "duplicate entry"})
	require.NoError(t, err)
	assert.Equal(t, int64(-1200), *voided.Balance)

	reconciliation, err := f.ledger.Reconcile(ctx, familyID)
	require.NoError(t, err)
	assert.True(t, reconciliation.Consistent)
	assert.Equal(t, int64(-1200), reconciliation.Balance)
}

func TestAdmitMidMonthProRates(t *testing.T) {
	f := newFixture(t, nil)

	admitted, err := f.admission.Admit(context.Background(), admission.AdmissionInput{
		FamilyName:  "Rao",
		Phone:       "9000000001",
		StudentName: "Kiran",
		ClassName:   "Class 2",
		JoiningDate: day(2026, time.June, 20),
	})
	require.NoError(t, err)

	assert.True(t, admitted.Billing.IsProRated)
	assert.Equal(t, int64(440), admitted.Charge.Amount)
	assert.Equal(t, "Admission fee for Kiran (Joined on 20th. 11 days remaining in month. Pro-rata calculated.)", admitted.Charge.Description)
	assert.Equal(t, day(2026, time.June, 20), admitted.Student.JoinedOn)
}

func TestAdmitReusesFamilyByPhone(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName: "Iyer", Phone: "9000000002", StudentName: "Anu", ClassName: "Class 1", JoiningDate: day(2026, time.April, 1),
	})
	require.NoError(t, err)

	second, err := f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName: "Iyer family", Phone: "9000-000-002", StudentName: "Babu", ClassName: "Class 3", JoiningDate: day(2026, time.April, 1),
	})
	require.NoError(t, err)

	assert.False(t, second.NewFamily)
	assert.Equal(t, first.Family.ID, second.Family.ID)
	assert.Equal(t, "Iyer", second.Family.Name)
	assert.Equal(t, int64(-2400), second.Balance)

	students, err := f.admission.ListStudents(ctx, admission.StudentFilter{FamilyID: first.Family.ID})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Anu", students[0].Name)
}

func TestAdmitUsesConfiguredFeeAndOverrides(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.store.Fees().CreateStructure(ctx, &fees.FeeStructure{ID: uuid.NewString(), ClassName: "Robotics", MonthlyFee: 2000, IsActive: true}))

	configured, err := f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName: "Das", Phone: "9000000003", StudentName: "Tara", ClassName: "Robotics", JoiningDate: day(2026, time.May, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), configured.Charge.Amount)

	free := int64(0)
	scholarship, err := f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName: "Das", Phone: "9000000003", StudentName: "Veer", ClassName: "Class 13", FeeOverride: &free, JoiningDate: day(2026, time.May, 1),
	})
	require.NoError(t, err)
	assert.Nil(t, scholarship.Charge)
	assert.Equal(t, int64(-2000), scholarship.Balance)

	charge := int64(150)
	custom, err := f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName: "Das", Phone: "9000000003", StudentName: "Zoya", ClassName: "Class 4", InitialCharge: &charge, JoiningDate: day(2026, time.May, 12),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(150), custom.Charge.Amount)
	assert.True(t, custom.Billing.IsProRated)
	assert.Equal(t, int64(-2150), custom.Balance)
}

func TestAdmitRejectsUnconfiguredClass(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName: "Nair", Phone: "9000000004", StudentName: "Lakshmi", ClassName: "Class 13",
	})
	require.ErrorIs(t, err, admission.ErrFeeNotConfigured)

	_, err = f.ledger.LookupFamilyByPhone(ctx, "9000000004")
	require.ErrorIs(t, err, ledger.ErrFamilyNotFound)
}

func TestAdmitValidation(t *testing.T) {
	f := newFixture(t, nil)
	negative := int64(-1)

	tests := []struct {
		name  string
		input admission.AdmissionInput
		want  error
	}{
		{name: "family name", input: admission.AdmissionInput{Phone: "1", StudentName: "a", ClassName: "Class 1"}, want: ledger.ErrInvalidFamilyName},
		{name: "phone", input: admission.AdmissionInput{FamilyName: "f", Phone: " - ", StudentName: "a", ClassName: "Class 1"}, want: ledger.ErrInvalidPhone},
		{name: "student name", input: admission.AdmissionInput{FamilyName: "f", Phone: "1", ClassName: "Class 1"}, want: admission.ErrInvalidStudentName},
		{name: "class", input: admission.AdmissionInput{FamilyName: "f", Phone: "1", StudentName: "a"}, want: admission.ErrInvalidClassName},
		{name: "override", input: admission.AdmissionInput{FamilyName: "f", Phone: "1", StudentName: "a", ClassName: "Class 1", FeeOverride: &negative}, want: admission.ErrNegativeOverride},
		{name: "charge", input: admission.AdmissionInput{FamilyName: "f", Phone: "1", StudentName: "a", ClassName: "Class 1", InitialCharge: &negative}, want: admission.ErrNegativeCharge},
		{name: "payment amount", input: admission.AdmissionInput{FamilyName: "f", Phone: "1", StudentName: "a", ClassName: "Class 1", Payment: &admission.DeskPayment{Channel: ledger.ChannelCash}}, want: ledger.ErrInvalidAmount},
		{name: "payment channel", input: admission.AdmissionInput{FamilyName: "f", Phone: "1", StudentName: "a", ClassName: "Class 1", Payment: &admission.DeskPayment{Amount: 5, Channel: "CARD"}}, want: ledger.ErrInvalidChannel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.admission.Admit(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAdmitWithDeskPayment(t *testing.T) {
	f := newFixture(t, nil)

	admitted, err := f.admission.Admit(context.Background(), admission.AdmissionInput{
		FamilyName:  "Khan",
		Phone:       "9000000005",
		StudentName: "Sara",
		ClassName:   "Class 3",
		JoiningDate: day(2026, time.July, 1),
		Payment:     &admission.DeskPayment{Amount: 1000, Channel: ledger.ChannelUPI},
	})
	require.NoError(t, err)

	require.NotNil(t, admitted.Payment)
	assert.Equal(t, ledger.Credit, admitted.Payment.Direction)
	assert.Equal(t, "Payment via UPI", admitted.Payment.Description)
	assert.NotNil(t, admitted.Payment.ReceiptNumber)
	assert.Equal(t, int64(-400), admitted.Balance)
	assert.Equal(t, int64(-400), admitted.Family.Balance)
}

type fixedReceipts string

func (r fixedReceipts) NextReceiptNumber(context.Context) (string, error) {
	return string(r), nil
}

func TestAdmitRollsBackEverythingOnFailure(t *testing.T) {
	f := newFixture(t, fixedReceipts("RKI-20260701-0001"))
	ctx := context.Background()
	payment := &admission.DeskPayment{Amount: 100, Channel: ledger.ChannelCash}

	_, err := f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName: "Paul", Phone: "9000000006", StudentName: "Ann", ClassName: "Class 1", Payment: payment,
	})
	require.NoError(t, err)

	_, err = f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName: "George", Phone: "9000000007", StudentName: "Ben", ClassName: "Class 1", Payment: payment,
	})
	require.ErrorIs(t, err, ledger.ErrDuplicateReceipt)

	_, err = f.ledger.LookupFamilyByPhone(ctx, "9000000007")
	require.ErrorIs(t, err, ledger.ErrFamilyNotFound)

	students, err := f.admission.ListStudents(ctx, admission.StudentFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestAdmitReactivatesFamily(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName: "Roy", Phone: "9000000008", StudentName: "Mitu", ClassName: "Class 1", JoiningDate: day(2026, time.January, 1),
	})
	require.NoError(t, err)
	require.NoError(t, f.ledger.DeactivateFamily(ctx, first.Family.ID))

	second, err := f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName: "Roy", Phone: "9000000008", StudentName: "Tutu", ClassName: "Class 1", JoiningDate: day(2026, time.January, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.FamilyStatusActive, second.Family.Status)
}

func TestDeactivateStudentEndsEnrollments(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	classes := academics.NewService(f.store.Academics(), nil)

	admitted, err := f.admission.Admit(ctx, admission.AdmissionInput{
		FamilyName: "Sen", Phone: "9000000009", StudentName: "Rita", ClassName: "Class 6", JoiningDate: day(2026, time.August, 1),
	})
	require.NoError(t, err)

	batch, err := classes.CreateBatch(ctx, academics.CreateBatchInput{Name: "Abacus", Fee: 400, Schedule: "Sat 10:00-11:00"})
	require.NoError(t, err)
	_, err = classes.Enroll(ctx, admitted.Student.ID, batch.ID)
	require.NoError(t, err)

	due, err := f.ledger.TotalDue(ctx, admitted.Family.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2200), due)

	require.NoError(t, f.admission.DeactivateStudent(ctx, admitted.Student.ID))
	require.ErrorIs(t, f.admission.DeactivateStudent(ctx, uuid.NewString()), admission.ErrStudentNotFound)

	enrolled, err := classes.ListStudentEnrollments(ctx, admitted.Student.ID)
	require.NoError(t, err)
	assert.Empty(t, enrolled)

	due, err = f.ledger.TotalDue(ctx, admitted.Family.ID)
	require.NoError(t, err)
	assert.Zero(t, due)

	student, err := f.admission.GetStudent(ctx, admitted.Student.ID)
	require.NoError(t, err)
	assert.False(t, student.IsActive)

	active, err := f.admission.ListStudents(ctx, admission.StudentFilter{FamilyID: admitted.Family.ID})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestPreviewJoiningFee(t *testing.T) {
	f := newFixture(t, nil)

	preview, err := f.admission.PreviewJoiningFee(context.Background(), "Class 10", nil, day(2026, time.February, 15))
	require.NoError(t, err)
	assert.Equal(t, int64(3000), preview.MonthlyFee)
	assert.Equal(t, 14, preview.DaysRemaining)
	assert.Equal(t, int64(1500), preview.Amount)

	_, err = f.admission.PreviewJoiningFee(context.Background(), "Class 0", nil, day(2026, time.February, 15))
	require.ErrorIs(t, err, admission.ErrFeeNotConfigured)
}
