package config

import (
	"wallet-service/src/internal/delivery/http"
	"wallet-service/src/internal/delivery/http/middleware"
	"wallet-service/src/internal/delivery/http/route"
	"wallet-service/src/internal/gateway/messaging"
	"wallet-service/src/internal/repository"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/databases/mysql"
	kafkaPkg "wallet-service/src/pkg/kafka"
	"wallet-service/src/pkg/log"
	redisModule "wallet-service/src/pkg/redis"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkg.Producer
	Redis       redis.UniversalClient
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
	// Repository and Locker override the MySQL repository and the lock
	// derived from Redis.
	Repository  repository.AccountRepository
	Locker      redisModule.Locker
}

func Bootstrap(config *BootstrapConfig) error {
	vipEngine, err := NewVipEngine(config.Config)
	if err != nil {
		return err
	}
	referralEngine, err := NewReferralEngine(config.Config)
	if err != nil {
		return err
	}
	wf, err := NewWorkflow(config.Config, vipEngine, referralEngine)
	if err != nil {
		return err
	}
	issuer, err := NewIssuer(config.Config)
	if err != nil {
		return err
	}
	credential, err := NewAdminCredential(config.Config)
	if err != nil {
		return err
	}

	// setup repositories
	accountRepository := config.Repository
	if accountRepository == nil {
		accountRepository = repository.NewAccountRepository(config.DB)
	}
	locker := config.Locker
	if locker == nil {
		locker = NewLocker(config.Redis, config.Log)
	}
	accountProducer := messaging.NewAccountProducer(config.Producer, NewTopics(config.Config), config.Log)

	// setup use cases
	vipUseCase := usecase.NewVipUseCase(config.Log, config.Validate, accountRepository, locker, vipEngine, accountProducer)
	if config.AsynqClient != nil {
		vipUseCase.Enqueuer = config.AsynqClient
	}
	accountUseCase := usecase.NewAccountUseCase(
		config.Log,
		config.Validate,
		accountRepository,
		locker,
		referralEngine,
		vipUseCase,
		accountProducer,
		issuer,
		config.Config.GetInt64("account.welcome_bonus"),
	)
	requestUseCase := usecase.NewRequestUseCase(config.Log, config.Validate, accountRepository, locker, wf, accountProducer)
	adminUseCase := usecase.NewAdminUseCase(config.Log, config.Validate, accountRepository, vipEngine, issuer, credential)

	// setup controller
	accountController := http.NewAccountController(accountUseCase, config.Log)
	requestController := http.NewRequestController(requestUseCase, config.Log)
	vipController := http.NewVipController(vipUseCase, config.Log)
	adminController := http.NewAdminController(adminUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(issuer)
	if config.Async != nil {
		config.Async.HandleFunc(usecase.TypeVipSettleSweep, vipUseCase.HandleSettleTask)
	}
	routeConfig := route.RouteConfig{
		App:               config.App,
		AccountController: accountController,
		RequestController: requestController,
		VipController:     vipController,
		AdminController:   adminController,
		AuthMiddleware:    authMiddleware,
	}
	routeConfig.Setup()
	return nil
}
