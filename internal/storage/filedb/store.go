// Package filedb реализует файловое хранилище документов: каждая коллекция — один JSON-файл
// с массивом записей. Любая операция читает и перезаписывает файл целиком.
//
// Изменения коллекции сериализуются: Update выполняет чтение, изменение и запись под
// мьютексом коллекции: параллельные записи в одном процессе не теряются.
// Между процессами файл не блокируется.
package filedb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Record — одна запись коллекции в нетипизированном виде.
//
// Значения после Read имеют типы encoding/json: string, float64, bool, nil, []any и map[string]any.
// Write с последующим Read возвращает ту же запись только для таких значений:
// Record{"n": 1} прочитается как Record{"n": float64(1)}.
type Record map[string]any

// Collection — имя коллекции; файл коллекции называется <name>.json.
type Collection string

const (
	Users         Collection = "users"
	Tools         Collection = "tools"
	ForumPosts    Collection = "forum-posts"
	ForumComments Collection = "forum-comments"
)

// AllCollections возвращает коллекции приложения.
func AllCollections() []Collection {
	return []Collection{Users, Tools, ForumPosts, ForumComments}
}

// ErrUnknownCollection возвращается для коллекции, не зарегистрированной в New.
var ErrUnknownCollection = errors.New("unknown collection")

// Store хранит коллекции в каталоге dir.
type Store struct {
	dir   string
	locks map[Collection]*sync.RWMutex
}

// New создаёт каталог данных и пустые файлы коллекций, которых ещё нет.
func New(dir string, collections ...Collection) (*Store, error) {
	const op = "filedb.New"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Store{
		dir:   dir,
		locks: make(map[Collection]*sync.RWMutex, len(collections)),
	}
	for _, c := range collections {
		s.locks[c] = &sync.RWMutex{}
		if _, err := os.Stat(s.path(c)); errors.Is(err, os.ErrNotExist) {
			if err := s.writeFile(c, nil); err != nil {
				return nil, fmt.Errorf("%s: init %s: %w", op, c, err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return s, nil
}

// Dir возвращает каталог с файлами коллекций.
func (s *Store) Dir() string {
	return s.dir
}

// Read возвращает все записи коллекции в порядке хранения.
// Повреждённый или нечитаемый файл даёт ошибку, частичного результата нет.
func (s *Store) Read(ctx context.Context, c Collection) ([]Record, error) {
	const op = "filedb.Read"

	mu, err := s.lock(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	mu.RLock()
	defer mu.RUnlock()

	records, err := s.readFile(c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}

// Write заменяет содержимое коллекции целиком.
func (s *Store) Write(ctx context.Context, c Collection, records []Record) error {
	const op = "filedb.Write"

	mu, err := s.lock(ctx, c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	mu.Lock()
	defer mu.Unlock()

	if err := s.writeFile(c, records); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Update читает коллекцию, передаёт записи в fn и записывает результат обратно,
// удерживая блокировку коллекции всё это время. Если fn вернула ошибку, файл не меняется.
func (s *Store) Update(ctx context.Context, c Collection, fn func([]Record) ([]Record, error)) error {
	const op = "filedb.Update"

	mu, err := s.lock(ctx, c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	mu.Lock()
	defer mu.Unlock()

	records, err := s.readFile(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	if err := s.writeFile(c, updated); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) lock(ctx context.Context, c Collection) (*sync.RWMutex, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	mu, ok := s.locks[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	return mu, nil
}

func (s *Store) path(c Collection) string {
	return filepath.Join(s.dir, string(c)+".json")
}

func (s *Store) readFile(c Collection) ([]Record, error) {
	data, err := os.ReadFile(s.path(c))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", c, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// writeFile пишет во временный файл рядом с целевым и переименовывает его,
// так что читатель видит либо старое, либо новое содержимое.
func (s *Store) writeFile(c Collection, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}

	tmp, err := os.CreateTemp(s.dir, string(c)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", c, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", c, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", c, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", c, err)
	}
	if err := os.Rename(tmpName, s.path(c)); err != nil {
		return fmt.Errorf("replace %s: %w", c, err)
	}
	return nil
}
