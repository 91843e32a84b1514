// Package fitness is the workout tracker: exercises with optional typed
// variants, per-set process records, and body weight history.
package fitness

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Harrix/harrix-swiss-knife-sub001/internal/core"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/log"
	"github.com/Harrix/harrix-swiss-knife-sub001/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DefaultUnit is used when an exercise has no explicit unit.
const DefaultUnit = "times"

type Exercise struct {
	ID           int64
	Name         string
	Unit         string
	TypeRequired bool
}

type ExerciseType struct {
	ID       int64
	Exercise string
	Type     string
}

// ProcessRecord is one logged set, joined with the exercise and type names.
type ProcessRecord struct {
	ID       int64
	Exercise string
	Type     string
	Value    string
	Unit     string
	Date     string
}

type WeightRecord struct {
	ID    int64
	Value float64
	Date  string
}

// ProcessFilter narrows process listings; zero fields mean "no filter".
// From and To only apply when both are set.
type ProcessFilter struct {
	Exercise string
	Type     string
	From     string
	To       string
}

type Repository struct {
	exec   *store.Executor
	logger *log.Logger
}

// Open bootstraps the schema and opens a session on the fitness database.
func Open(path string) (*Repository, error) {
	if err := store.RunMigrations(path, migrationsFS, "migrations"); err != nil {
		return nil, fmt.Errorf("migrate fitness database: %w", err)
	}
	sess, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fitness database: %w", err)
	}
	return &Repository{
		exec:   store.NewExecutor(sess),
		logger: log.New(log.Config{Component: log.ComponentFitness}),
	}, nil
}

func (r *Repository) Close() error {
	return r.exec.Session().Close()
}

func (r *Repository) AddExercise(ctx context.Context, name, unit string, typeRequired bool) error {
	if unit == "" {
		unit = DefaultUnit
	}
	return r.exec.Exec(ctx,
		"INSERT INTO exercises (name, unit, is_type_required) VALUES (:name, :unit, :itr)",
		store.Params{"name": name, "unit": unit, "itr": boolFlag(typeRequired)})
}

func (r *Repository) UpdateExercise(ctx context.Context, id int64, name, unit string, typeRequired bool) error {
	return r.exec.Exec(ctx,
		"UPDATE exercises SET name = :n, unit = :u, is_type_required = :itr WHERE _id = :id",
		store.Params{"n": name, "u": unit, "itr": boolFlag(typeRequired), "id": id})
}

func (r *Repository) DeleteExercise(ctx context.Context, id int64) error {
	return r.exec.Exec(ctx, "DELETE FROM exercises WHERE _id = :id", store.Params{"id": id})
}

func (r *Repository) AddExerciseType(ctx context.Context, exerciseID int64, typeName string) error {
	return r.exec.Exec(ctx,
		"INSERT INTO types (_id_exercises, type) VALUES (:ex, :tp)",
		store.Params{"ex": exerciseID, "tp": typeName})
}

func (r *Repository) UpdateExerciseType(ctx context.Context, typeID, exerciseID int64, typeName string) error {
	return r.exec.Exec(ctx,
		"UPDATE types SET _id_exercises = :ex, type = :tp WHERE _id = :id",
		store.Params{"ex": exerciseID, "tp": typeName, "id": typeID})
}

func (r *Repository) DeleteExerciseType(ctx context.Context, typeID int64) error {
	return r.exec.Exec(ctx, "DELETE FROM types WHERE _id = :id", store.Params{"id": typeID})
}

// AddProcessRecord logs one set. typeID -1 means "no type".
func (r *Repository) AddProcessRecord(ctx context.Context, exerciseID, typeID int64, value, date string) error {
	err := r.exec.Exec(ctx,
		"INSERT INTO process (_id_exercises, _id_types, value, date) VALUES (:exercise_id, :type_id, :value, :date)",
		store.Params{"exercise_id": exerciseID, "type_id": typeID, "value": value, "date": date})
	if err != nil {
		return err
	}
	r.logger.Debug("set recorded", log.FieldExercise, exerciseID, log.FieldDate, date)
	return nil
}

func (r *Repository) UpdateProcessRecord(ctx context.Context, recordID, exerciseID, typeID int64, value, date string) error {
	return r.exec.Exec(ctx,
		"UPDATE process SET _id_exercises = :ex, _id_types = :tp, value = :val, date = :dt WHERE _id = :id",
		store.Params{"ex": exerciseID, "tp": typeID, "val": value, "dt": date, "id": recordID})
}

func (r *Repository) DeleteProcessRecord(ctx context.Context, recordID int64) error {
	return r.exec.Exec(ctx, "DELETE FROM process WHERE _id = :id", store.Params{"id": recordID})
}

func (r *Repository) AddWeightRecord(ctx context.Context, value float64, date string) error {
	return r.exec.Exec(ctx,
		"INSERT INTO weight (value, date) VALUES (:val, :dt)",
		store.Params{"val": value, "dt": date})
}

func (r *Repository) UpdateWeightRecord(ctx context.Context, recordID int64, value float64, date string) error {
	return r.exec.Exec(ctx,
		"UPDATE weight SET value = :v, date = :d WHERE _id = :id",
		store.Params{"v": value, "d": date, "id": recordID})
}

func (r *Repository) DeleteWeightRecord(ctx context.Context, recordID int64) error {
	return r.exec.Exec(ctx, "DELETE FROM weight WHERE _id = :id", store.Params{"id": recordID})
}

func (r *Repository) GetAllExercises(ctx context.Context) ([]Exercise, error) {
	rows, err := r.exec.FetchAll(ctx,
		"SELECT _id, name, unit, is_type_required FROM exercises ORDER BY _id", nil)
	if err != nil {
		return nil, fmt.Errorf("get exercises: %w", err)
	}
	exercises := make([]Exercise, len(rows))
	for i, row := range rows {
		id, _ := store.AsInt64(row[0])
		exercises[i] = Exercise{
			ID:           id,
			Name:         store.AsString(row[1]),
			Unit:         store.AsString(row[2]),
			TypeRequired: store.AsBool(row[3]),
		}
	}
	return exercises, nil
}

func (r *Repository) GetAllExerciseTypes(ctx context.Context) ([]ExerciseType, error) {
	rows, err := r.exec.FetchAll(ctx, `
		SELECT t._id, e.name, t.type
		FROM types t
		JOIN exercises e ON t._id_exercises = e._id
		ORDER BY t._id`, nil)
	if err != nil {
		return nil, fmt.Errorf("get exercise types: %w", err)
	}
	types := make([]ExerciseType, len(rows))
	for i, row := range rows {
		id, _ := store.AsInt64(row[0])
		types[i] = ExerciseType{ID: id, Exercise: store.AsString(row[1]), Type: store.AsString(row[2])}
	}
	return types, nil
}

// ExerciseTypes returns the type names defined for one exercise.
func (r *Repository) ExerciseTypes(ctx context.Context, exerciseID int64) ([]string, error) {
	rows, err := r.exec.FetchAll(ctx,
		"SELECT type FROM types WHERE _id_exercises = :ex ORDER BY _id",
		store.Params{"ex": exerciseID})
	if err != nil {
		return nil, fmt.Errorf("get types for exercise %d: %w", exerciseID, err)
	}
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = store.AsString(row[0])
	}
	return names, nil
}

func (r *Repository) GetAllProcessRecords(ctx context.Context) ([]ProcessRecord, error) {
	return r.GetFilteredProcessRecords(ctx, ProcessFilter{})
}

func (r *Repository) GetFilteredProcessRecords(ctx context.Context, f ProcessFilter) ([]ProcessRecord, error) {
	var conditions []string
	params := store.Params{}

	if f.Exercise != "" {
		conditions = append(conditions, "e.name = :exercise")
		params["exercise"] = f.Exercise
	}
	if f.Type != "" {
		conditions = append(conditions, "t.type = :type")
		params["type"] = f.Type
	}
	if f.From != "" && f.To != "" {
		conditions = append(conditions, "p.date BETWEEN :date_from AND :date_to")
		params["date_from"] = f.From
		params["date_to"] = f.To
	}

	text := `
		SELECT p._id,
		       e.name,
		       IFNULL(t.type, ''),
		       p.value,
		       e.unit,
		       p.date
		FROM process p
		JOIN exercises e ON p._id_exercises = e._id
		LEFT JOIN types t
		     ON p._id_types = t._id
		    AND t._id_exercises = e._id`
	if len(conditions) > 0 {
		text += " WHERE " + strings.Join(conditions, " AND ")
	}
	text += " ORDER BY p._id DESC"

	rows, err := r.exec.FetchAll(ctx, text, params)
	if err != nil {
		return nil, fmt.Errorf("get process records: %w", err)
	}
	records := make([]ProcessRecord, len(rows))
	for i, row := range rows {
		id, _ := store.AsInt64(row[0])
		records[i] = ProcessRecord{
			ID:       id,
			Exercise: store.AsString(row[1]),
			Type:     store.AsString(row[2]),
			Value:    store.AsString(row[3]),
			Unit:     store.AsString(row[4]),
			Date:     store.AsString(row[5]),
		}
	}
	return records, nil
}

func (r *Repository) GetAllWeightRecords(ctx context.Context) ([]WeightRecord, error) {
	rows, err := r.exec.FetchAll(ctx,
		"SELECT _id, value, date FROM weight ORDER BY date DESC", nil)
	if err != nil {
		return nil, fmt.Errorf("get weight records: %w", err)
	}
	records := make([]WeightRecord, len(rows))
	for i, row := range rows {
		id, _ := store.AsInt64(row[0])
		value, _ := store.AsFloat64(row[1])
		records[i] = WeightRecord{ID: id, Value: value, Date: store.AsString(row[2])}
	}
	return records, nil
}

// ExercisesByFrequency returns exercise names ordered by how often they
// appear in the most recent limit process rows; exercises absent from that
// slice follow in insertion order.
func (r *Repository) ExercisesByFrequency(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	exerciseRows, err := r.exec.FetchAll(ctx, "SELECT _id, name FROM exercises ORDER BY _id", nil)
	if err != nil {
		return nil, fmt.Errorf("get exercises: %w", err)
	}
	recentRows, err := r.exec.FetchAll(ctx,
		"SELECT _id_exercises FROM process ORDER BY _id DESC LIMIT :limit",
		store.Params{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("get recent process rows: %w", err)
	}

	names := make(map[int64]string, len(exerciseRows))
	order := make([]int64, 0, len(exerciseRows))
	for _, row := range exerciseRows {
		id, _ := store.AsInt64(row[0])
		names[id] = store.AsString(row[1])
		order = append(order, id)
	}

	counts := make(map[int64]int)
	firstSeen := make(map[int64]int)
	for i, row := range recentRows {
		id, _ := store.AsInt64(row[0])
		counts[id]++
		if _, seen := firstSeen[id]; !seen {
			firstSeen[id] = i
		}
	}

	used := make([]int64, 0, len(counts))
	for id := range counts {
		if _, known := names[id]; known {
			used = append(used, id)
		}
	}
	sort.Slice(used, func(i, j int) bool {
		if counts[used[i]] != counts[used[j]] {
			return counts[used[i]] > counts[used[j]]
		}
		return firstSeen[used[i]] < firstSeen[used[j]]
	})

	result := make([]string, 0, len(order))
	inResult := make(map[int64]bool, len(used))
	for _, id := range used {
		result = append(result, names[id])
		inResult[id] = true
	}
	for _, id := range order {
		if !inResult[id] {
			result = append(result, names[id])
		}
	}
	return result, nil
}

// ExerciseChartData returns raw (date, value) pairs for one exercise,
// optionally narrowed by type and date range.
func (r *Repository) ExerciseChartData(ctx context.Context, exercise, exerciseType, from, to string) ([]core.RawPoint, error) {
	conditions := []string{"e.name = :exercise"}
	params := store.Params{"exercise": exercise}

	if from != "" && to != "" {
		conditions = append(conditions, "p.date BETWEEN :date_from AND :date_to")
		params["date_from"] = from
		params["date_to"] = to
	}
	if exerciseType != "" {
		conditions = append(conditions, "t.type = :type")
		params["type"] = exerciseType
	}

	text := `
		SELECT p.date, p.value
		FROM process p
		JOIN exercises e ON p._id_exercises = e._id
		LEFT JOIN types t ON p._id_types = t._id AND t._id_exercises = e._id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY p.date ASC`

	rows, err := r.exec.FetchAll(ctx, text, params)
	if err != nil {
		return nil, fmt.Errorf("get exercise chart data: %w", err)
	}
	return rawPoints(rows, 0, 1), nil
}

// SetsChartData returns the per-date set counts in [from, to].
func (r *Repository) SetsChartData(ctx context.Context, from, to string) ([]core.RawPoint, error) {
	rows, err := r.exec.FetchAll(ctx, `
		SELECT date, COUNT(*) as set_count
		FROM process
		WHERE date BETWEEN :date_from AND :date_to
		AND date IS NOT NULL
		GROUP BY date
		ORDER BY date ASC`,
		store.Params{"date_from": from, "date_to": to})
	if err != nil {
		return nil, fmt.Errorf("get sets chart data: %w", err)
	}
	return rawPoints(rows, 0, 1), nil
}

// WeightChartData returns the raw (date, weight) pairs in [from, to].
func (r *Repository) WeightChartData(ctx context.Context, from, to string) ([]core.RawPoint, error) {
	rows, err := r.exec.FetchAll(ctx, `
		SELECT date, value
		FROM weight
		WHERE date BETWEEN :date_from AND :date_to
		AND date IS NOT NULL
		ORDER BY date ASC`,
		store.Params{"date_from": from, "date_to": to})
	if err != nil {
		return nil, fmt.Errorf("get weight chart data: %w", err)
	}
	return rawPoints(rows, 0, 1), nil
}

// LastWeight returns the most recent weight value.
func (r *Repository) LastWeight(ctx context.Context) (float64, bool) {
	rows := r.exec.GetRows(ctx, "SELECT value FROM weight ORDER BY date DESC, _id DESC LIMIT 1", nil)
	if len(rows) == 0 {
		return 0, false
	}
	v, ok := store.AsFloat64(rows[0][0])
	return v, ok
}

// SetsCountToday returns the number of sets logged on today's date.
func (r *Repository) SetsCountToday(ctx context.Context) int {
	rows := r.exec.GetRows(ctx,
		"SELECT COUNT(*) FROM process WHERE date = :today",
		store.Params{"today": core.Today()})
	if len(rows) == 0 {
		return 0
	}
	n, _ := store.AsInt64(rows[0][0])
	return int(n)
}

func (r *Repository) EarliestProcessDate(ctx context.Context) (string, bool) {
	return r.earliestDate(ctx, "SELECT MIN(date) FROM process WHERE date IS NOT NULL")
}

func (r *Repository) EarliestWeightDate(ctx context.Context) (string, bool) {
	return r.earliestDate(ctx, "SELECT MIN(date) FROM weight WHERE date IS NOT NULL")
}

func (r *Repository) earliestDate(ctx context.Context, text string) (string, bool) {
	rows := r.exec.GetRows(ctx, text, nil)
	if len(rows) == 0 || rows[0][0] == nil {
		return "", false
	}
	date := store.AsString(rows[0][0])
	return date, date != ""
}

// ExerciseUnit returns the unit for an exercise name, DefaultUnit when the
// exercise is unknown or has no unit.
func (r *Repository) ExerciseUnit(ctx context.Context, exercise string) string {
	rows := r.exec.GetRows(ctx,
		"SELECT unit FROM exercises WHERE name = :name", store.Params{"name": exercise})
	if len(rows) == 0 {
		return DefaultUnit
	}
	if unit := store.AsString(rows[0][0]); unit != "" {
		return unit
	}
	return DefaultUnit
}

// IsTypeRequired reports whether the exercise demands a type on each set.
func (r *Repository) IsTypeRequired(ctx context.Context, exerciseID int64) bool {
	rows := r.exec.GetRows(ctx,
		"SELECT is_type_required FROM exercises WHERE _id = :ex_id",
		store.Params{"ex_id": exerciseID})
	return len(rows) > 0 && store.AsBool(rows[0][0])
}

// LastExerciseRecord returns the type name and value of the most recent set
// for the exercise.
func (r *Repository) LastExerciseRecord(ctx context.Context, exerciseID int64) (typeName, value string, ok bool) {
	rows := r.exec.GetRows(ctx, `
		SELECT t.type, p.value
		FROM process p
		LEFT JOIN types t ON p._id_types = t._id AND t._id_exercises = p._id_exercises
		WHERE p._id_exercises = :ex_id
		ORDER BY p._id DESC
		LIMIT 1`,
		store.Params{"ex_id": exerciseID})
	if len(rows) == 0 {
		return "", "", false
	}
	return store.AsString(rows[0][0]), store.AsString(rows[0][1]), true
}

// LastExerciseDate returns the date of the most recent set for the exercise.
func (r *Repository) LastExerciseDate(ctx context.Context, exerciseID int64) (string, bool) {
	rows := r.exec.GetRows(ctx, `
		SELECT date
		FROM process
		WHERE _id_exercises = :ex_id
		ORDER BY _id DESC
		LIMIT 1`,
		store.Params{"ex_id": exerciseID})
	if len(rows) == 0 {
		return "", false
	}
	date := store.AsString(rows[0][0])
	return date, date != ""
}

// ExerciseID resolves an exercise name to its row id.
func (r *Repository) ExerciseID(ctx context.Context, name string) (int64, bool, error) {
	return r.exec.GetID(ctx, "exercises", "name", name, "_id", "")
}

// TypeID resolves a type name for an exercise to its row id.
func (r *Repository) TypeID(ctx context.Context, typeName string, exerciseID int64) (int64, bool, error) {
	condition := "_id_exercises = " + strconv.FormatInt(exerciseID, 10)
	return r.exec.GetID(ctx, "types", "type", typeName, "_id", condition)
}

func rawPoints(rows []store.Row, dateIdx, valueIdx int) []core.RawPoint {
	points := make([]core.RawPoint, len(rows))
	for i, row := range rows {
		points[i] = core.RawPoint{
			Date:  store.AsString(row[dateIdx]),
			Value: store.AsString(row[valueIdx]),
		}
	}
	return points
}

func boolFlag(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
