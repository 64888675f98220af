package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/annel0/grove-world/internal/world"
)

// WorldRepo хранит снимки сгенерированных WorldDefinition на диске
// в виде сжатого JSON. Снимки служат для отладки и проверки
// воспроизводимости, это не сохранения игрового состояния.
type WorldRepo struct {
	basePath string
	mu       sync.Mutex
}

// NewWorldRepo создаёт репозиторий снимков в указанной директории
func NewWorldRepo(basePath string) (*WorldRepo, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию %s: %w", basePath, err)
	}
	return &WorldRepo{basePath: basePath}, nil
}

// Save записывает снимок мира. Ключ снимка — идентификатор мира
// (детерминирован от сида), так что повторная генерация перезаписывает
// тот же файл.
func (wr *WorldRepo) Save(def *world.WorldDefinition) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("ошибка сериализации мира %s: %w", def.ID, err)
	}

	filename := wr.snapshotFilename(def.ID)
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("ошибка создания файла снимка %s: %w", filename, err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		return fmt.Errorf("ошибка записи снимка %s: %w", filename, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия gzip-потока %s: %w", filename, err)
	}
	return nil
}

// Load читает снимок мира по идентификатору.
// Отсутствующий снимок — не ошибка: возвращается (nil, false, nil).
func (wr *WorldRepo) Load(worldID string) (*world.WorldDefinition, bool, error) {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	filename := wr.snapshotFilename(worldID)
	file, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка открытия снимка %s: %w", filename, err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения gzip-потока %s: %w", filename, err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения снимка %s: %w", filename, err)
	}

	var def world.WorldDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, false, fmt.Errorf("ошибка десериализации снимка %s: %w", filename, err)
	}
	return &def, true, nil
}

func (wr *WorldRepo) snapshotFilename(worldID string) string {
	return filepath.Join(wr.basePath, fmt.Sprintf("world_%s.json.gz", worldID))
}
