// Seed populates a development database with fake accounts, profiles and
// meetings so the calendar screens have something to render.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"meetly/config"
	"meetly/db"
	"meetly/models"
	"meetly/services"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

func main() {
	var configPath string
	var userCount int
	var meetingsPerUser int
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.IntVar(&userCount, "users", 50, "Number of fake users to create")
	flag.IntVar(&meetingsPerUser, "meetings", 5, "Number of meetings per user")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		log.Fatal("failed to load configuration: ", err)
	}
	if err := db.ConnectDB(); err != nil {
		log.Fatal("failed to connect to the database: ", err)
	}

	ctx := context.Background()
	uids := make([]string, 0, userCount)

	for i := 0; i < userCount; i++ {
		email := gofakeit.Email()
		account := models.Account{
			UID:      uuid.NewString(),
			Email:    email,
			Password: "seeded",
		}
		if err := db.GetWriteDB(ctx).Create(&account).Error; err != nil {
			log.Println("skipping account:", err)
			continue
		}
		profile := models.User{
			UID:         account.UID,
			Email:       email,
			Friends:     models.StringList{},
			Permissions: models.PermissionList{},
			Schedule:    models.ScheduleList{},
			Location:    gofakeit.City(),
		}
		if err := db.GetWriteDB(ctx).Create(&profile).Error; err != nil {
			log.Println("skipping profile:", err)
			continue
		}
		uids = append(uids, account.UID)

		for j := 0; j < meetingsPerUser; j++ {
			day := time.Now().AddDate(0, 0, gofakeit.Number(-15, 45))
			hour := gofakeit.Number(8, 17)
			meeting := models.Meeting{
				Title:     gofakeit.BuzzWord() + " sync",
				Date:      day.Format("2006-01-02"),
				StartTime: fmt.Sprintf("%02d:00", hour),
				EndTime:   fmt.Sprintf("%02d:30", hour),
				Location:  gofakeit.Company(),
				Accept:    gofakeit.Bool(),
				UserID:    account.UID,
			}
			if err := services.SaveMeeting(ctx, &meeting); err != nil {
				log.Println("skipping meeting:", err)
			}
		}
	}

	// Random accepted friendships so the calendar shows friend events.
	friendships := 0
	for i := 0; i+1 < len(uids); i += 2 {
		friendship := models.Friendship{
			ID:         uuid.NewString(),
			SenderID:   uids[i],
			ReceiverID: uids[i+1],
			Status:     models.FriendshipAccepted,
		}
		if err := db.GetWriteDB(ctx).Create(&friendship).Error; err != nil {
			log.Println("skipping friendship:", err)
			continue
		}
		friendships++
	}

	log.Printf("seeded %d users, %d friendships", len(uids), friendships)
}
