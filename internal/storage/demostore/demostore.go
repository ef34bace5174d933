// Package demostore реализует файловое демо-хранилище, заменяющее внешний
// бэкенд знакомств. Данные лежат в именованных коллекциях как записи
// произвольной формы; каждая запись проверяется JSON-схемой коллекции
// на границе записи.
//
// Снапшот целиком сохраняется в файл состояния при каждой записи под
// мьютексом. Хранилище безопасно только в рамках одного процесса:
// транзакционности между процессами нет, это осознанное ограничение
// демо-режима.
package demostore

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/matrimony-portal/portal-api/internal/lib/sl"
)

// Известные коллекции демо-хранилища.
const (
	CollectionUsers              = "users"
	CollectionProfiles           = "profiles"
	CollectionProposals          = "proposals"
	CollectionShortlist          = "shortlist"
	CollectionBlockedUsers       = "blockedUsers"
	CollectionProfileViews       = "profileViews"
	CollectionUserActivity       = "userActivity"
	CollectionEvents             = "events"
	CollectionEventRegistrations = "eventRegistrations"
	CollectionOrganizers         = "organizers"
)

// ErrNotFound возвращается при обновлении или удалении несуществующей записи.
var ErrNotFound = fmt.Errorf("record not found")

// ErrUnknownCollection возвращается при записи в неизвестную коллекцию.
var ErrUnknownCollection = fmt.Errorf("unknown collection")

// Record запись коллекции произвольной формы.
type Record = map[string]any

// idPrefixes префиксы генерируемых идентификаторов по коллекциям.
var idPrefixes = map[string]string{
	CollectionUsers:              "usr",
	CollectionProfiles:           "prf",
	CollectionProposals:          "prp",
	CollectionShortlist:          "shl",
	CollectionBlockedUsers:       "blk",
	CollectionProfileViews:       "pv",
	CollectionUserActivity:       "act",
	CollectionEvents:             "evt",
	CollectionEventRegistrations: "reg",
	CollectionOrganizers:         "org",
}

// KnownCollections возвращает имена всех коллекций хранилища.
func KnownCollections() []string {
	names := make([]string, 0, len(idPrefixes))
	for name := range idPrefixes {
		names = append(names, name)
	}
	return names
}

// Store файловое хранилище с именованными коллекциями.
type Store struct {
	mu        sync.Mutex
	seedPath  string
	statePath string
	validator *Validator
	log       *slog.Logger

	opened      bool
	collections map[string][]Record
}

// New создает хранилище с путями к снапшоту и файлу состояния.
func New(seedPath, statePath string, log *slog.Logger) (*Store, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	return &Store{
		seedPath:  seedPath,
		statePath: statePath,
		validator: validator,
		log:       log,
	}, nil
}

// Open загружает данные один раз. Файл состояния имеет приоритет над
// исходным снапшотом, чтобы записи переживали перезапуск. Повторные
// вызовы ничего не перечитывают. При невозможности прочитать оба
// источника хранилище стартует с пустым набором известных коллекций.
func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opened {
		return nil
	}
	s.collections = s.loadLocked()
	s.opened = true
	return nil
}

func (s *Store) loadLocked() map[string][]Record {
	for _, path := range []string{s.statePath, s.seedPath} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var collections map[string][]Record
		if err := json.Unmarshal(data, &collections); err != nil {
			s.log.Warn("failed to decode demo snapshot, skipping",
				slog.String("path", path), sl.Err(err))
			continue
		}
		return withKnownCollections(collections)
	}
	s.log.Warn("no demo snapshot available, starting with empty collections")
	return withKnownCollections(nil)
}

func withKnownCollections(collections map[string][]Record) map[string][]Record {
	if collections == nil {
		collections = make(map[string][]Record)
	}
	for name := range idPrefixes {
		if _, ok := collections[name]; !ok {
			collections[name] = []Record{}
		}
	}
	return collections
}

// GetAll возвращает все записи коллекции. Для неизвестной коллекции
// возвращается пустой срез, ошибки не бывает.
func (s *Store) GetAll(collection string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// GetByID возвращает запись по идентификатору, nil если записи нет.
func (s *Store) GetByID(collection, id string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.collections[collection] {
		if rec["id"] == id {
			return rec
		}
	}
	return nil
}

// GetByFilter возвращает записи коллекции, удовлетворяющие предикату.
func (s *Store) GetByFilter(collection string, predicate func(Record) bool) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, rec := range s.collections[collection] {
		if predicate(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Create добавляет запись в коллекцию: генерирует идентификатор, если его
// нет, проставляет createdAt/updatedAt, валидирует запись по схеме
// коллекции и синхронно сохраняет снапшот. Возвращает сохраненную запись.
func (s *Store) Create(collection string, item Record) (Record, error) {
	const op = "demostore.Create"

	prefix, ok := idPrefixes[collection]
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", op, collection, ErrUnknownCollection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := make(Record, len(item)+3)
	for k, v := range item {
		rec[k] = v
	}
	if _, ok := rec["id"]; !ok {
		rec["id"] = newID(prefix)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	rec["createdAt"] = now
	rec["updatedAt"] = now

	if err := s.validator.Validate(collection, rec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.collections[collection] = append(s.collections[collection], rec)
	if err := s.persistLocked(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// Update вливает patch в существующую запись (неглубокое слияние),
// обновляет updatedAt, валидирует результат и сохраняет снапшот.
// Возвращает ErrNotFound, если записи нет; коллекция при этом не меняется.
func (s *Store) Update(collection, id string, patch Record) (Record, error) {
	const op = "demostore.Update"

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	for i, rec := range records {
		if rec["id"] != id {
			continue
		}
		merged := make(Record, len(rec)+len(patch))
		for k, v := range rec {
			merged[k] = v
		}
		for k, v := range patch {
			merged[k] = v
		}
		merged["id"] = id
		merged["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

		if err := s.validator.Validate(collection, merged); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		records[i] = merged
		if err := s.persistLocked(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return merged, nil
	}
	return nil, fmt.Errorf("%s: %s/%s: %w", op, collection, id, ErrNotFound)
}

// Delete удаляет запись и возвращает её. Возвращает ErrNotFound, если
// записи нет; коллекция при этом не меняется.
func (s *Store) Delete(collection, id string) (Record, error) {
	const op = "demostore.Delete"

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	for i, rec := range records {
		if rec["id"] != id {
			continue
		}
		s.collections[collection] = append(records[:i:i], records[i+1:]...)
		if err := s.persistLocked(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return rec, nil
	}
	return nil, fmt.Errorf("%s: %s/%s: %w", op, collection, id, ErrNotFound)
}

// Reset отбрасывает файл состояния и перечитывает исходный снапшот,
// затирая все записи, сделанные за сессию.
func (s *Store) Reset() error {
	const op = "demostore.Reset"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.statePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.collections = s.loadLocked()
	return nil
}

func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.collections, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.statePath, data, 0o644)
}

// newID собирает идентификатор вида {prefix}{unix-milli}{random}.
func newID(prefix string) string {
	return fmt.Sprintf("%s%d%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:4])
}

// Decode переводит запись в типизированную структуру через JSON.
func Decode(rec Record, target any) error {
	const op = "demostore.Decode"
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Encode переводит типизированную структуру в запись через JSON.
func Encode(value any) (Record, error) {
	const op = "demostore.Encode"
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}
