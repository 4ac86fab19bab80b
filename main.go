// Package main bookswap API.
//
// @title           BookSwap API
// @version         1.0
// @description     Peer-to-peer book exchange service (listings, exchange requests, messaging, profiles).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"bookswap/app/echoServer"
	authctrl "bookswap/app/echoServer/controller/auth"
	bookctrl "bookswap/app/echoServer/controller/book"
	exchangectrl "bookswap/app/echoServer/controller/exchange"
	messagectrl "bookswap/app/echoServer/controller/message"
	profilectrl "bookswap/app/echoServer/controller/profile"
	transactionctrl "bookswap/app/echoServer/controller/transaction"
	"bookswap/app/echoServer/validation"
	"bookswap/config"
	authrepo "bookswap/repository/auth"
	bookrepo "bookswap/repository/book"
	exchangerepo "bookswap/repository/exchange"
	messagerepo "bookswap/repository/message"
	notifierrepo "bookswap/repository/notifier"
	profilerepo "bookswap/repository/profile"
	transactionrepo "bookswap/repository/transaction"
	authsvc "bookswap/service/auth"
	booksvc "bookswap/service/book"
	exchangesvc "bookswap/service/exchange"
	messagesvc "bookswap/service/message"
	profilesvc "bookswap/service/profile"
	transactionsvc "bookswap/service/transaction"
	"bookswap/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	runner := database.NewRunner(db)

	// repos
	ar := authrepo.New(db)
	br := bookrepo.New(db)
	er := exchangerepo.New(db)
	tr := transactionrepo.New(db)
	mr := messagerepo.New(db)
	pr := profilerepo.New(db)

	var nr notifierrepo.Repo
	if cfg.NotifierURL != "" {
		nr = notifierrepo.NewHTTP(cfg.NotifierURL)
	} else {
		nr = notifierrepo.NewNoop()
	}

	// services
	as := authsvc.New(ar, pr, nr, cfg.JWTSecret)
	bs := booksvc.New(br)
	es := exchangesvc.New(runner, er, br, ar, nr, log)
	ts := transactionsvc.New(runner, tr, es)
	ms := messagesvc.New(mr, ar)
	ps := profilesvc.New(pr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log, UploadDir: "uploads/covers"}
	exchangeC := &exchangectrl.Controller{Svc: es, V: v, Log: log}
	transactionC := &transactionctrl.Controller{Svc: ts, V: v, Log: log}
	messageC := &messagectrl.Controller{Svc: ms, V: v, Log: log}
	profileC := &profilectrl.Controller{Svc: ps, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", "uploads")

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Book:        bookC,
		Exchange:    exchangeC,
		Transaction: transactionC,
		Message:     messageC,
		Profile:     profileC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "env", cfg.Env, "port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
