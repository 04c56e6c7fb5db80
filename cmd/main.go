package main

import (
	_ "gw-rate-converter/docs"
	"gw-rate-converter/internal/app"
	"log"
)

// @title           Currency Converter API
// @version         1.0
// @description     Конвертация суммы в иностранные валюты по текущим котировкам

// @host      localhost:8080
// @BasePath  /api/v1
func main() {
	app, err := app.NewApp()
	if err != nil {
		log.Fatalf("Ошибка создания приложения: %v", err)
	}

	if err := app.BuildConversionLayer(); err != nil {
		log.Fatalf("Ошибка сборки слоя конвертации: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Ошибка при работе приложения: %v", err)
	}
}
