package reservations

import (
	"testing"
	"time"

	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/domain"
	"nexuspos-backend/internal/models"
	"nexuspos-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTable(t *testing.T) *models.Table {
	t.Helper()
	table := &models.Table{Number: 5, Name: "Ventana", State: models.TableFree}
	require.NoError(t, database.DB.Create(table).Error)
	return table
}

func newReservation(tableID uint, startsAt time.Time, minutes int) *models.Reservation {
	return &models.Reservation{
		TableID:         tableID,
		ClientName:      "García",
		StartsAt:        startsAt,
		DurationMinutes: minutes,
		PartySize:       4,
	}
}

func TestCreateReservation(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t)
	start := time.Now().Add(3 * time.Hour)

	res, err := Create(newReservation(table.ID, start, 90))
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, res.State)
	assert.Equal(t, start.Add(90*time.Minute), res.EndsAt())
}

func TestCreateInPastFails(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t)

	_, err := Create(newReservation(table.ID, time.Now().Add(-time.Hour), 60))
	assert.ErrorIs(t, err, domain.ErrReservationInPast)
}

func TestCreateUnknownTableFails(t *testing.T) {
	testutil.SetupDB(t)

	_, err := Create(newReservation(999, time.Now().Add(time.Hour), 60))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOverlapOnSameTableFails(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t)
	base := time.Now().Add(4 * time.Hour)

	_, err := Create(newReservation(table.ID, base, 120))
	require.NoError(t, err)

	// pisa la mitad de la ventana
	_, err = Create(newReservation(table.ID, base.Add(time.Hour), 120))
	var conflict *domain.ScheduleConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, table.ID, conflict.TableID)
}

func TestBackToBackReservationsAllowed(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t)
	base := time.Now().Add(4 * time.Hour)

	_, err := Create(newReservation(table.ID, base, 120))
	require.NoError(t, err)

	// intervalo semiabierto: empezar justo cuando termina la anterior es válido
	_, err = Create(newReservation(table.ID, base.Add(2*time.Hour), 60))
	assert.NoError(t, err)
}

func TestCancelledReservationDoesNotBlock(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t)
	base := time.Now().Add(4 * time.Hour)

	first, err := Create(newReservation(table.ID, base, 120))
	require.NoError(t, err)
	_, err = Transition(first.ID, models.ReservationCancelled)
	require.NoError(t, err)

	_, err = Create(newReservation(table.ID, base, 120))
	assert.NoError(t, err)
}

func TestTransitions(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t)

	res, err := Create(newReservation(table.ID, time.Now().Add(time.Hour), 60))
	require.NoError(t, err)

	res, err = Transition(res.ID, models.ReservationConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, res.State)

	res, err = Transition(res.ID, models.ReservationSeated)
	require.NoError(t, err)

	// sentar al cliente ocupa la mesa
	var reloaded models.Table
	require.NoError(t, database.DB.First(&reloaded, table.ID).Error)
	assert.Equal(t, models.TableOccupied, reloaded.State)
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t)

	res, err := Create(newReservation(table.ID, time.Now().Add(time.Hour), 60))
	require.NoError(t, err)
	_, err = Transition(res.ID, models.ReservationNoShow)
	require.NoError(t, err)

	_, err = Transition(res.ID, models.ReservationConfirmed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = Transition(res.ID, models.ReservationSeated)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSeatedIsTerminal(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t)

	res, err := Create(newReservation(table.ID, time.Now().Add(time.Hour), 60))
	require.NoError(t, err)
	_, err = Transition(res.ID, models.ReservationSeated)
	require.NoError(t, err)

	// sentada es el estado final exitoso: no se cancela ni se reprograma
	_, err = Transition(res.ID, models.ReservationCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = Transition(res.ID, models.ReservationNoShow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	size := 2
	_, err = Update(res.ID, nil, nil, &size, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateRevalidatesOverlap(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t)
	base := time.Now().Add(4 * time.Hour)

	_, err := Create(newReservation(table.ID, base, 120))
	require.NoError(t, err)
	second, err := Create(newReservation(table.ID, base.Add(3*time.Hour), 60))
	require.NoError(t, err)

	// reprogramar la segunda encima de la primera debe chocar
	newStart := base.Add(30 * time.Minute)
	_, err = Update(second.ID, &newStart, nil, nil, nil)
	var conflict *domain.ScheduleConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestUpdateTerminalReservationFails(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t)

	res, err := Create(newReservation(table.ID, time.Now().Add(time.Hour), 60))
	require.NoError(t, err)
	_, err = Transition(res.ID, models.ReservationCancelled)
	require.NoError(t, err)

	size := 6
	_, err = Update(res.ID, nil, nil, &size, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDefaultDurationApplied(t *testing.T) {
	testutil.SetupDB(t)
	table := seedTable(t)

	res, err := Create(newReservation(table.ID, time.Now().Add(time.Hour), 0))
	require.NoError(t, err)
	assert.Equal(t, 120, res.DurationMinutes)
}
