package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"meetly/api/middleware"
	"meetly/api/routes"
	"meetly/config"
	"meetly/db"
	"meetly/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	err = db.ConnectDB()
	if err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}
	if err := db.CreateFriendshipStatusEnum(db.ORM); err != nil {
		log.Println("friendship enum migration skipped:", err)
	}
	if err := db.CreateHotPathIndexes(db.ORM); err != nil {
		panic("Failed to create indexes: " + err.Error())
	}

	if err := services.InitRedis(); err != nil {
		log.Println("Redis unavailable, schedule cache disabled:", err)
	}
	if err := services.InitRabbitMQ(); err != nil {
		log.Println("RabbitMQ unavailable, friendship notifications disabled:", err)
	} else {
		if err := services.StartFriendshipEventConsumer(context.Background(), "friendship_notifications"); err != nil {
			log.Println("failed to start friendship event consumer:", err)
		}
	}
	defer services.CloseRabbitMQ()
	defer func() { _ = services.CloseRedis() }()

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware("meetly"))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.PublicApi(router)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	if config.AppConfig.Backend.Port == 0 {
		addr = ":8080"
	}
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
