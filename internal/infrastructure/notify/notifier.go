// Package notify entrega las alertas de stock bajo del ledger.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var (
	_ inventory.Notifier = (*LogNotifier)(nil)
	_ inventory.Notifier = (*RedisNotifier)(nil)
)

// LogNotifier registra la alerta en el log estructurado. Se usa cuando no hay Redis.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{log: log}
}

// LowStockAlert implementa inventory.Notifier.
func (n *LogNotifier) LowStockAlert(_ context.Context, a inventory.LowStockAlert) error {
	n.log.Warn().
		Str("merchant_id", a.MerchantID).
		Str("product_id", a.ProductID).
		Str("sku", a.SKU).
		Str("location_id", a.LocationID).
		Int64("current_stock", a.CurrentStock).
		Int64("threshold", a.Threshold).
		Msg("stock bajo")
	return nil
}

// redisClient subconjunto de *redis.Client usado por el notificador.
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisNotifier publica la alerta (JSON) en un canal Pub/Sub. Una misma alerta
// (empresa, producto, ubicación) no se repite durante el cooldown: SETNX con TTL.
type RedisNotifier struct {
	client   redisClient
	channel  string
	cooldown time.Duration
	log      *logger.Logger
}

// RedisNotifierOption opción funcional del notificador.
type RedisNotifierOption func(*RedisNotifier)

// WithChannel canal Pub/Sub de destino.
func WithChannel(channel string) RedisNotifierOption {
	return func(n *RedisNotifier) {
		if channel != "" {
			n.channel = channel
		}
	}
}

// WithCooldown ventana sin repetir la misma alerta (0 = sin cooldown).
func WithCooldown(d time.Duration) RedisNotifierOption {
	return func(n *RedisNotifier) { n.cooldown = d }
}

// WithLogger logger para trazas del notificador.
func WithLogger(log *logger.Logger) RedisNotifierOption {
	return func(n *RedisNotifier) {
		if log != nil {
			n.log = log
		}
	}
}

// NewRedisNotifier construye el notificador sobre un cliente existente (el llamador lo cierra).
func NewRedisNotifier(client *redis.Client, opts ...RedisNotifierOption) *RedisNotifier {
	return newRedisNotifier(client, opts...)
}

func newRedisNotifier(client redisClient, opts ...RedisNotifierOption) *RedisNotifier {
	n := &RedisNotifier{
		client:   client,
		channel:  "inventory:low-stock",
		cooldown: time.Hour,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// LowStockAlert implementa inventory.Notifier. Si el publish falla se libera la
// marca de cooldown para que el siguiente intento vuelva a enviar la alerta.
func (n *RedisNotifier) LowStockAlert(ctx context.Context, a inventory.LowStockAlert) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("serializar alerta: %w", err)
	}
	key := ""
	if n.cooldown > 0 {
		key = n.cooldownKey(a)
		first, err := n.client.SetNX(ctx, key, a.CurrentStock, n.cooldown).Result()
		if err != nil {
			return fmt.Errorf("redis setnx: %w", err)
		}
		if !first {
			n.log.Debug().Str("product_id", a.ProductID).Str("location_id", a.LocationID).Msg("alerta en cooldown")
			return nil
		}
	}
	if err := n.client.Publish(ctx, n.channel, data).Err(); err != nil {
		if key != "" {
			if delErr := n.client.Del(context.WithoutCancel(ctx), key).Err(); delErr != nil {
				n.log.Error().Err(delErr).Str("key", key).Msg("no se pudo liberar el cooldown")
			}
		}
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (n *RedisNotifier) cooldownKey(a inventory.LowStockAlert) string {
	return fmt.Sprintf("%s:sent:%s:%s:%s", n.channel, a.MerchantID, a.ProductID, a.LocationID)
}

// Multi envía la alerta a todos los notificadores; devuelve el primer error.
type Multi []inventory.Notifier

// LowStockAlert implementa inventory.Notifier.
func (m Multi) LowStockAlert(ctx context.Context, a inventory.LowStockAlert) error {
	var first error
	for _, n := range m {
		if err := n.LowStockAlert(ctx, a); err != nil && first == nil {
			first = err
		}
	}
	return first
}
