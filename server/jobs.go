package server

import (
	"fmt"

	"github.com/pcea-st-andrews/stands-ims/server/gstorage"
	"github.com/pcea-st-andrews/stands-ims/server/models"
	"github.com/pcea-st-andrews/stands-ims/server/work"
	"github.com/pcea-st-andrews/stands-ims/utils"
)

const (
	backupHandlerName     = "backupSqliteDb"
	feverAlertHandlerName = "sendFeverAlert"
	purgeHandlerName      = "purgeIncompleteRecords"

	// Stale people records are swept while traffic is low.
	purgeCronExpression = "0 2 * * *"
)

// backupSqliteDb pushes the current sqlite db file to the configured
// cloud storage bucket.
// TODO: pull db from google storage if it exists, before db starts
func backupSqliteDb(map[string]interface{}) error {
	dbFilePath, err := models.DbFilePath(dbRootDir)
	if err != nil {
		return err
	}

	if !utils.FileExist(dbFilePath) {
		logg.Warnf("no db file at %v yet, skipping backup", dbFilePath)
		return nil
	}

	storageClient, err := gstorage.NewGStorage(serverConfig.Google.ApplicationCredentials)
	if err != nil {
		return err
	}

	return storageClient.UploadFile(
		serverConfig.Google.Storage.Bucket,
		serverConfig.Google.Storage.Prefix,
		dbFilePath,
	)
}

// sendFeverAlert texts a person whose latest reading crossed the fever
// threshold. People without a phone number on record are skipped.
func sendFeverAlert(args map[string]interface{}) error {
	username := fmt.Sprintf("%v", args["username"])

	person, err := models.FindPersonBy("username", username)
	if err != nil {
		return err
	}

	if person.PhoneNumber == "" {
		logg.Infof("no phone number on record for %v, skipping fever alert", username)
		return nil
	}

	msg := fmt.Sprintf(
		"Hi %v, a body temperature of %v°C was recorded for you today. Please seek medical attention.",
		person.FullName, args["body_temperature"],
	)

	return smsClient.SendMessage(person.PhoneNumber, msg)
}

func purgeIncompleteRecords(map[string]interface{}) error {
	count, err := models.PurgeIncompleteRecords()
	if err != nil {
		return err
	}

	if count > 0 {
		logg.Infof("purged %v people with no date of birth on record", count)
	}

	return nil
}

func registerJobHandlers(wpa *work.WorkerPoolAdapter) {
	wpa.Register(backupHandlerName, backupSqliteDb)
	wpa.Register(feverAlertHandlerName, sendFeverAlert)
	wpa.Register(purgeHandlerName, purgeIncompleteRecords)
}

func enqueueJobs(wpa *work.WorkerPoolAdapter) {
	if serverConfig.Google.Storage.EnableSqliteBackupAndSync == true {
		wpa.PeriodicallyPerform(serverConfig.Google.Storage.SqliteBackupSchedule, work.JobParams{
			Name:    backupHandlerName,
			Handler: backupHandlerName,
			Args:    map[string]interface{}{},
		})
	}

	wpa.PeriodicallyPerform(purgeCronExpression, work.JobParams{
		Name:    purgeHandlerName,
		Handler: purgeHandlerName,
		Args:    map[string]interface{}{},
	})
}
