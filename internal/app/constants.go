package app

const (
	ErrLoadingConfig       = "failed to load config"
	ErrConnectingDatabase  = "failed to connect to database"
	ErrUnsupportedDatabase = "unsupported database type"
	ErrEnsuringSchema      = "failed to ensure database schema"
	ErrClosingDatabase     = "failed to close database client"
	ErrClosingRedis        = "failed to close redis client"
	ErrInitializingHasher  = "failed to initialize password hasher"
	ErrInitializingIssuer  = "failed to initialize session issuer"
	ErrInitializingKey     = "failed to initialize private key"
	ErrInitializingSigner  = "failed to initialize cookie signer"
	ErrAddingRoute         = "failed to add route"
	ErrPurgingSessions     = "failed to purge expired sessions"
	MsgDatabaseConnected   = "Connected to database"
	MsgRedisConnected      = "Connected to Redis"
	MsgPrivateKeyGenerated = "Generated new private key"
	MsgSessionsPurged      = "Purged expired sessions"
	MsgSweeperStarted      = "Session sweeper started"
	MsgSweeperStopped      = "Session sweeper stopped"
	MsgShutdownSignal      = "Shutdown requested"
	MsgAppStopped          = "Application stopped"
	MsgServiceReady        = "Service ready"
	MsgClosingStores       = "Closing stores"
)
