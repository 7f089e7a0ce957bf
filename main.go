// @title EduLearn 后端 API
// @version 1.0
// @description EduLearn 考试备考平台的后端服务器。

// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"edulearn_backend/internal/app"
	"edulearn_backend/internal/config"
	"edulearn_backend/pkg/database"
	"edulearn_backend/pkg/logger"
	"flag"
	"log"
)

const configDir = "configs"

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	// 迁移完成后直接退出，不需要 Redis 与 HTTP 服务
	if cfg.MigrateOnly {
		logger.InitLogger(cfg.Server.Mode)
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, true)
		if err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		database.CloseDB(db)
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application, err := app.NewApp(cfg, configDir)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer logger.Log.Sync()

	application.Run()
}
