package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/annel0/grove-world/internal/config"
	"github.com/annel0/grove-world/internal/eventbus"
	"github.com/annel0/grove-world/internal/logging"
	"github.com/annel0/grove-world/internal/render"
	"github.com/annel0/grove-world/internal/storage"
	"github.com/annel0/grove-world/internal/world"
	"github.com/annel0/grove-world/internal/world/entity"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации")
	seedFlag := flag.String("seed", "", "сид мира (переопределяет конфиг)")
	levelFlag := flag.Int("level", 0, "уровень игрока (переопределяет конфиг)")
	loadAll := flag.Bool("load-all", false, "материализовать все зоны после генерации")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("worldgen"); err != nil {
		log.Fatalf("Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("Ошибка чтения конфигурации: %v", err)
		log.Fatalf("Ошибка чтения конфигурации: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	seed := cfg.World.GetSeed()
	if *seedFlag != "" {
		seed = *seedFlag
	}
	playerLevel := cfg.World.GetPlayerLevel()
	if *levelFlag > 0 {
		playerLevel = *levelFlag
	}

	logging.Info("Генерация мира: сид=%q, уровень=%d", seed, playerLevel)

	// === ИНИЦИАЛИЗАЦИЯ КОМПОНЕНТОВ ===

	catalog, err := world.LoadCatalog(cfg.World.CatalogPath)
	if err != nil {
		logging.Error("Ошибка загрузки каталога архетипов: %v", err)
		log.Fatalf("Ошибка загрузки каталога архетипов: %v", err)
	}

	// Реестр визуализаций-заглушек, валидированный против каталога
	registry := render.NewNullRegistry(catalog)
	if err := registry.ValidateCatalog(catalog); err != nil {
		logging.Error("Каталог не согласован с реестром визуализаций: %v", err)
		log.Fatalf("Каталог не согласован с реестром визуализаций: %v", err)
	}

	// Шина событий жизненного цикла зон + экспорт метрик
	bus := eventbus.NewMemoryBus(256)
	if cfg.Metrics.Enabled {
		exporter := eventbus.NewMetricsExporter(bus)
		exporter.StartHTTP(fmt.Sprintf(":%d", cfg.Metrics.GetMetricsPort()))
	}

	// === ГЕНЕРАЦИЯ ===

	generator := world.NewWorldGenerator(catalog)
	def := generator.Generate(seed, playerLevel)

	printSummary(def)

	// Снимок для проверки воспроизводимости
	if cfg.Storage.SaveSnapshots {
		repo, err := storage.NewWorldRepo(cfg.Storage.GetDataPath())
		if err != nil {
			logging.Error("Ошибка создания репозитория снимков: %v", err)
		} else if err := repo.Save(def); err != nil {
			logging.Error("Ошибка сохранения снимка мира: %v", err)
		} else {
			logging.Info("Снимок мира %s сохранён в %s", def.ID, cfg.Storage.GetDataPath())
		}
	}

	// === МАТЕРИАЛИЗАЦИЯ (опционально) ===

	if *loadAll {
		store := entity.NewStore()
		materializer := world.NewZoneMaterializer(store, 0)
		manager := world.NewWorldManager(materializer)
		manager.SetEventBus(bus)
		manager.Init(def, registry)

		manager.LoadAllZones()
		logging.Info("Все зоны загружены: %d сущностей", store.Count())

		if x, z, ok := manager.SpawnPosition(); ok {
			logging.Info("Точка появления игрока: (%d, %d), проходима: %v", x, z, manager.IsWalkable(x, z))
		}

		manager.Dispose()
	}
}

// printSummary выводит сводку по сгенерированному миру
func printSummary(def *world.WorldDefinition) {
	fmt.Printf("Мир %s (%s), схема v%d, зон: %d\n", def.Name, def.ID, def.SchemaVersion, len(def.Zones))
	for _, z := range def.Zones {
		fmt.Printf("  %-8s %-12s %3dx%-3d @ (%4d,%4d) переопределений=%d декораций=%d строений=%d связей=%d\n",
			z.ID, z.ZoneType, z.Width, z.Height, z.OriginX, z.OriginZ,
			len(z.Overrides), len(z.Decorations), len(z.Structures), len(z.Connections))
	}
	fmt.Printf("Точка появления: %s (%d,%d)\n", def.Spawn.ZoneID, def.Spawn.LocalX, def.Spawn.LocalZ)
}
