// app/echoServer/routes.go
package echoServer

import (
	"net/http"

	"bookswap/app/echoServer/controller/auth"
	"bookswap/app/echoServer/controller/book"
	"bookswap/app/echoServer/controller/exchange"
	"bookswap/app/echoServer/controller/message"
	"bookswap/app/echoServer/controller/profile"
	"bookswap/app/echoServer/controller/transaction"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth        *auth.Controller
	Book        *book.Controller
	Exchange    *exchange.Controller
	Transaction *transaction.Controller
	Message     *message.Controller
	Profile     *profile.Controller
	JWTSecret   string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)
	pub.POST("/users/password/forgot", c.Auth.ForgotPassword)
	pub.POST("/users/password/reset", c.Auth.ResetPassword)

	// Auth
	authGrp := e.Group("/v1")
	authGrp.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// user_id extraction
	authGrp.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenObj := ctx.Get("user")
			if tokenObj == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			claims, ok := tokenObj.(jwt.MapClaims)
			if !ok {
				if tok, tk := tokenObj.(*jwt.Token); tk {
					claims, ok = tok.Claims.(jwt.MapClaims)
				}
			}
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			ctx.Set("user_id", int64(sub))
			return next(ctx)
		}
	})

	// Books
	authGrp.POST("/books", c.Book.Create)
	authGrp.GET("/books/search", c.Book.Search)
	authGrp.GET("/books/my", c.Book.ListMine)
	authGrp.GET("/books/:id", c.Book.Detail)
	authGrp.PUT("/books/:id", c.Book.Update)
	authGrp.DELETE("/books/:id", c.Book.Delete)
	authGrp.POST("/books/:id/cover", c.Book.UploadCover)

	// Exchanges
	authGrp.POST("/exchanges/books/:id/requests", c.Exchange.Create)
	authGrp.GET("/exchanges/requests", c.Exchange.List)
	authGrp.POST("/exchanges/requests/:id/accept", c.Exchange.Accept)
	authGrp.POST("/exchanges/requests/:id/reject", c.Exchange.Reject)

	// Transactions
	authGrp.GET("/transactions", c.Transaction.Overview)
	authGrp.POST("/transactions/exchanges/:id/cancel", c.Transaction.CancelExchange)
	authGrp.POST("/transactions/records", c.Transaction.CreateRecord)
	authGrp.POST("/transactions/records/:id/complete", c.Transaction.CompleteRecord)
	authGrp.POST("/transactions/records/:id/cancel", c.Transaction.CancelRecord)
	authGrp.GET("/transactions/records", c.Transaction.Records)

	// Messages
	authGrp.POST("/messages/users/:id", c.Message.Send)
	authGrp.GET("/messages/conversations/:id", c.Message.Conversation)
	authGrp.GET("/messages/inbox", c.Message.Inbox)
	authGrp.GET("/messages/sent", c.Message.Sent)

	// Profiles
	authGrp.GET("/profile", c.Profile.Me)
	authGrp.PUT("/profile", c.Profile.Update)
	authGrp.GET("/profile/users/:id", c.Profile.ByUser)
}
