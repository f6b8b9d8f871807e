package cmd

import (
	"coursemarket/core"
	certificatestore "coursemarket/store/certificate"
	coursestore "coursemarket/store/course"
	enrollmentstore "coursemarket/store/enrollment"
	eventstore "coursemarket/store/event"
	signalstore "coursemarket/store/signal"
	tokenstore "coursemarket/store/token"
	"time"

	courseservice "coursemarket/service/course"
	marketservice "coursemarket/service/market"
	oracleservice "coursemarket/service/oracle"
	roleservice "coursemarket/service/role"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideCourseStore(db *db.DB) core.ICourseStore {
	return coursestore.Cache(coursestore.New(db), time.Minute)
}

func provideEnrollmentStore(db *db.DB) core.IEnrollmentStore {
	return enrollmentstore.New(db)
}

func provideEventStore(db *db.DB) core.IEventStore {
	return eventstore.New(db)
}

func provideSignalStore(db *db.DB) core.ISignalStore {
	return signalstore.New(db)
}

func provideTokenLedger(db *db.DB) core.ITokenLedger {
	return tokenstore.New(db)
}

func provideCertificateRegistry(db *db.DB) core.ICertificateRegistry {
	return certificatestore.New(db)
}

// ------------------service------------------------------------

func provideRoleService(db *db.DB) core.IRoleService {
	return roleservice.New(db, providePropertyStore(db), provideEventStore(db), cfg.Genesis)
}

func provideCourseService(db *db.DB) core.ICourseService {
	return courseservice.New(db, provideCourseStore(db), provideEventStore(db), provideRoleService(db))
}

func provideMarketService(db *db.DB) core.IMarketService {
	return marketservice.New(
		db,
		cfg.Market,
		provideCourseStore(db),
		provideEnrollmentStore(db),
		provideEventStore(db),
		provideTokenLedger(db),
		provideCertificateRegistry(db),
		provideRoleService(db),
	)
}

func provideOracleService() core.IOracleService {
	return oracleservice.New(provideConfig())
}
