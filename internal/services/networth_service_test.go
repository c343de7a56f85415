package services

import (
	"testing"

	"patrimonio/internal/testutil"
)

func TestListSnapshots(t *testing.T) {
	manager := testutil.SetupTestManager(t)
	service := NewNetWorthService(manager)

	testutil.CreateTestSnapshot(t, manager, 2024, 3, 70000)
	testutil.CreateTestSnapshot(t, manager, 2026, 1, 95000)

	snapshots, err := service.ListSnapshots()
	testutil.AssertNoError(t, err)

	// Seven seeded 2025 points plus the two created here, newest first.
	if len(snapshots) != 9 {
		t.Fatalf("expected 9 snapshots, got %d", len(snapshots))
	}
	if snapshots[0].Year != 2026 {
		t.Errorf("expected newest first, got year %d", snapshots[0].Year)
	}
	if snapshots[len(snapshots)-1].Year != 2024 {
		t.Errorf("expected oldest last, got year %d", snapshots[len(snapshots)-1].Year)
	}
}

func TestCreateSnapshot(t *testing.T) {
	manager := testutil.SetupTestManager(t)
	service := NewNetWorthService(manager)

	t.Run("success", func(t *testing.T) {
		snapshot, err := service.CreateSnapshot(2024, 7, 1, 81234.56, "antes del viaje")
		testutil.AssertNoError(t, err)
		if snapshot.ID == 0 {
			t.Error("expected snapshot to receive an id")
		}
	})

	t.Run("duplicate date", func(t *testing.T) {
		_, err := service.CreateSnapshot(2024, 7, 1, 99999, "")
		testutil.AssertAppError(t, err, "DUPLICATE_SNAPSHOT")
	})

	t.Run("same month different day allowed", func(t *testing.T) {
		_, err := service.CreateSnapshot(2024, 7, 15, 82000, "")
		testutil.AssertNoError(t, err)
	})

	t.Run("invalid month", func(t *testing.T) {
		_, err := service.CreateSnapshot(2024, 13, 1, 1, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid day", func(t *testing.T) {
		_, err := service.CreateSnapshot(2024, 1, 32, 1, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative patrimonio", func(t *testing.T) {
		_, err := service.CreateSnapshot(2024, 8, 1, -1, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateSnapshot(t *testing.T) {
	manager := testutil.SetupTestManager(t)
	service := NewNetWorthService(manager)

	t.Run("partial update", func(t *testing.T) {
		snapshot := testutil.CreateTestSnapshot(t, manager, 2023, 5, 60000)
		patrimonio := 61500.25

		updated, err := service.UpdateSnapshot(snapshot.ID, SnapshotUpdate{Patrimonio: &patrimonio})
		testutil.AssertNoError(t, err)
		if !updated {
			t.Error("expected update to report a matched row")
		}

		reloaded, err := service.GetSnapshotByID(snapshot.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Patrimonio != 61500.25 {
			t.Errorf("expected updated patrimonio, got %f", reloaded.Patrimonio)
		}
		if reloaded.Year != 2023 || reloaded.Month != 5 {
			t.Errorf("expected date untouched, got %d/%d", reloaded.Year, reloaded.Month)
		}
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		snapshot := testutil.CreateTestSnapshot(t, manager, 2023, 6, 60000)
		updated, err := service.UpdateSnapshot(snapshot.ID, SnapshotUpdate{})
		testutil.AssertNoError(t, err)
		if updated {
			t.Error("expected no-op for empty update")
		}
	})

	t.Run("moving onto an existing date conflicts", func(t *testing.T) {
		testutil.CreateTestSnapshot(t, manager, 2023, 7, 60000)
		other := testutil.CreateTestSnapshot(t, manager, 2023, 8, 60000)

		month := 7
		_, err := service.UpdateSnapshot(other.ID, SnapshotUpdate{Month: &month})
		testutil.AssertAppError(t, err, "DUPLICATE_SNAPSHOT")
	})
}

func TestDeleteSnapshot(t *testing.T) {
	manager := testutil.SetupTestManager(t)
	service := NewNetWorthService(manager)

	snapshot := testutil.CreateTestSnapshot(t, manager, 2022, 1, 50000)
	deleted, err := service.DeleteSnapshot(snapshot.ID)
	testutil.AssertNoError(t, err)
	if !deleted {
		t.Error("expected snapshot to be deleted")
	}

	deleted, err = service.DeleteSnapshot(snapshot.ID)
	testutil.AssertNoError(t, err)
	if deleted {
		t.Error("expected false for already-deleted snapshot")
	}
}
