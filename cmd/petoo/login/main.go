package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/petoo-app/petoo-booking/internal/client"
	"github.com/petoo-app/petoo-booking/internal/common/config"
	"github.com/petoo-app/petoo-booking/internal/common/console"
	"github.com/petoo-app/petoo-booking/internal/common/database"
	"github.com/petoo-app/petoo-booking/internal/common/utils"
	"github.com/petoo-app/petoo-booking/internal/repository"
	"github.com/petoo-app/petoo-booking/internal/service/auth"
)

func main() {
	phone := flag.String("phone", "", "電話番号")
	code := flag.String("code", "", "SMSで受け取った認証コード。省略時はコードを送信")
	logout := flag.Bool("logout", false, "保存済みの認証情報を削除")
	timeout := flag.Duration("timeout", time.Minute, "タイムアウト時間")
	logLevel := flag.String("log-level", "info", "ログレベル")
	flag.Parse()

	console.SetupLogger(os.Getenv("ENV"), *logLevel)

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatal().Err(utils.GetStackWithError(err)).Msg("Failed to load config")
	}

	db, err := database.NewDB(cfg.Store, false)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local store")
	}
	defer db.Close()

	ctx := context.Background()
	sessions := repository.NewSessionRepository(repository.NewDB(db.DB))
	session, err := sessions.LoadSession(ctx, cfg.BrandColor)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load session")
	}

	api := client.New(cfg.API.BaseURL, sessions, client.WithTimeout(cfg.API.Timeout))
	svc := auth.NewLoginService(api, sessions, session, cfg.PhoneRegion)

	err = utils.RunWithTimeout(ctx, "login", *timeout, func(ctx context.Context) error {
		switch {
		case *logout:
			return svc.Logout(ctx)
		case *phone == "":
			return fmt.Errorf("-phone is required")
		case *code == "":
			normalized, err := svc.RequestOTP(ctx, *phone)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Código enviado para %s\n", normalized)
			return nil
		default:
			s, err := svc.VerifyOTP(ctx, *phone, *code)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Login realizado: %s\n", s.UserID())
			return nil
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("Login failed")
		db.Close()
		os.Exit(1)
	}
}
