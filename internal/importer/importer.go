package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	SessionsImported  int
	SessionsSkipped   int
	SetsInserted      int
	ExercisesCreated  int
	CategoriesCreated int
}

// Importer writes parsed CSV history through the storage layer.
type Importer struct {
	db     *storage.DB
	log    *slog.Logger
	userID uuid.UUID
	dryRun bool
	stats  Stats

	categoryCache map[string]uuid.UUID
	exerciseCache map[string]uuid.UUID
}

// New creates a new Importer writing as the given user.
func New(db *storage.DB, userID uuid.UUID, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{
		db:            db,
		log:           log,
		userID:        userID,
		dryRun:        dryRun,
		categoryCache: map[string]uuid.UUID{},
		exerciseCache: map[string]uuid.UUID{},
	}
}

// Import parses the CSV and inserts its sessions. A session whose
// user/category/start time already exists is skipped, so re-running an
// import is harmless.
func (imp *Importer) Import(ctx context.Context, r io.Reader) (*Stats, error) {
	sessions, err := Parse(r)
	if err != nil {
		return &imp.stats, fmt.Errorf("parsing export: %w", err)
	}

	for _, parsed := range sessions {
		if err := imp.importSession(ctx, parsed); err != nil {
			return &imp.stats, fmt.Errorf("importing session %q at %s: %w",
				parsed.WorkoutName, parsed.Date.Format("2006-01-02"), err)
		}
	}

	return &imp.stats, nil
}

func (imp *Importer) importSession(ctx context.Context, parsed ParsedSession) error {
	categoryID, err := imp.resolveCategory(ctx, parsed.WorkoutName)
	if err != nil {
		return err
	}

	exists, err := imp.db.SessionExists(ctx, imp.userID, categoryID, parsed.Date)
	if err != nil {
		return err
	}
	if exists {
		imp.stats.SessionsSkipped++
		imp.log.Info("session already imported, skipping",
			"workout", parsed.WorkoutName, "date", parsed.Date)
		return nil
	}

	if imp.dryRun {
		imp.stats.SessionsImported++
		imp.stats.SetsInserted += len(parsed.Sets)
		return nil
	}

	session, err := imp.db.CreateSession(ctx, imp.userID, categoryID, parsed.Date, nil)
	if err != nil {
		return err
	}

	// Append sets in file order; a new workout-exercise entry starts
	// whenever the exercise name changes, matching how the export groups
	// consecutive sets.
	var entryID uuid.UUID
	lastExercise := ""
	for _, set := range parsed.Sets {
		if set.ExerciseName != lastExercise {
			exerciseID, err := imp.resolveExercise(ctx, set.ExerciseName)
			if err != nil {
				return err
			}
			entry, err := imp.db.AddWorkoutExercise(ctx, session.ID, exerciseID, storage.WorkoutExerciseMeta{})
			if err != nil {
				return err
			}
			entryID = entry.ID
			lastExercise = set.ExerciseName
		}

		if _, err := imp.db.AddSet(ctx, entryID, set.Reps, set.Weight); err != nil {
			return err
		}
		imp.stats.SetsInserted++
	}

	endedAt := parsed.Date.Add(time.Duration(ParseDuration(parsed.Duration)) * time.Minute)
	if endedAt.After(parsed.Date) {
		if _, err := imp.db.FinishSession(ctx, session.ID, endedAt); err != nil {
			return err
		}
	}

	imp.stats.SessionsImported++
	return nil
}

func (imp *Importer) resolveCategory(ctx context.Context, name string) (uuid.UUID, error) {
	if id, ok := imp.categoryCache[name]; ok {
		return id, nil
	}

	category, err := imp.db.GetCategoryByName(ctx, imp.userID, name)
	if err != nil {
		return uuid.Nil, err
	}
	if category == nil {
		if imp.dryRun {
			id := uuid.New()
			imp.categoryCache[name] = id
			imp.stats.CategoriesCreated++
			return id, nil
		}
		category, err = imp.db.CreateCategory(ctx, imp.userID, name)
		if err != nil {
			return uuid.Nil, err
		}
		imp.stats.CategoriesCreated++
	}

	imp.categoryCache[name] = category.ID
	return category.ID, nil
}

func (imp *Importer) resolveExercise(ctx context.Context, name string) (uuid.UUID, error) {
	if id, ok := imp.exerciseCache[name]; ok {
		return id, nil
	}

	exercise, err := imp.db.FindExerciseByName(ctx, imp.userID, name)
	if err != nil {
		return uuid.Nil, err
	}
	if exercise == nil {
		exercise, err = imp.db.CreateExercise(ctx, imp.userID, name)
		if err != nil {
			return uuid.Nil, err
		}
		imp.stats.ExercisesCreated++
	}

	imp.exerciseCache[name] = exercise.ID
	return exercise.ID, nil
}
