package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrOpen - breaker открыт, вызов отклонен без обращения к ресурсу
var ErrOpen = errors.New("circuit breaker is open")

// State - состояние breaker
type State int

const (
	// StateClosed - нормальная работа, вызовы проходят
	StateClosed State = iota

	// StateHalfOpen - пробные вызовы после паузы
	StateHalfOpen

	// StateOpen - вызовы отклоняются до истечения Cooldown
	StateOpen
)

// String - строковое представление состояния
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Config - конфигурация breaker
type Config struct {
	// Name - имя для логирования
	Name string `yaml:"name"`

	// MaxFailures - последовательных ошибок до открытия
	MaxFailures uint32 `yaml:"max_failures"`

	// Cooldown - время в Open перед переходом в Half-Open
	Cooldown time.Duration `yaml:"cooldown"`

	// SuccessThreshold - успешных вызовов в Half-Open для закрытия
	SuccessThreshold uint32 `yaml:"success_threshold"`

	// OnStateChange - вызывается при смене состояния (вне блокировки)
	OnStateChange func(name string, from, to State) `yaml:"-"`
}

// Validate - валидация конфигурации
func (c *Config) Validate() error {
	if c.MaxFailures == 0 {
		return fmt.Errorf("MaxFailures must be greater than 0")
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("Cooldown must be greater than 0")
	}
	if c.SuccessThreshold == 0 {
		c.SuccessThreshold = 1
	}
	if c.Name == "" {
		c.Name = "circuit-breaker"
	}
	return nil
}

// DefaultConfig - конфигурация по умолчанию
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxFailures:      5,
		Cooldown:         30 * time.Second,
		SuccessThreshold: 2,
	}
}

// Breaker - защита от долгих ожиданий недоступного ресурса.
// После MaxFailures ошибок подряд вызовы отклоняются с ErrOpen, пока не
// пройдет Cooldown; затем пропускаются пробные вызовы (Half-Open).
type Breaker struct {
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	state     State
	failures  uint32
	successes uint32
	openUntil time.Time
}

// New - создать breaker
func New(cfg Config) (*Breaker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid circuit breaker config: %w", err)
	}
	return &Breaker{cfg: cfg, now: time.Now}, nil
}

// Execute - выполнить fn под защитой breaker
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.before(); err != nil {
		return err
	}
	err := fn(ctx)
	// отмена вызывающим - не отказ ресурса
	if errors.Is(err, context.Canceled) {
		return err
	}
	b.after(err == nil)
	return err
}

// State - текущее состояние
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Name - имя breaker
func (b *Breaker) Name() string { return b.cfg.Name }

func (b *Breaker) before() error {
	b.mu.Lock()
	if b.state != StateOpen {
		b.mu.Unlock()
		return nil
	}
	if b.now().Before(b.openUntil) {
		b.mu.Unlock()
		return ErrOpen
	}
	notify := b.transition(StateHalfOpen)
	b.mu.Unlock()
	notify()
	return nil
}

func (b *Breaker) after(ok bool) {
	b.mu.Lock()
	notify := func() {}

	if ok {
		b.failures = 0
		if b.state == StateHalfOpen {
			b.successes++
			if b.successes >= b.cfg.SuccessThreshold {
				notify = b.transition(StateClosed)
			}
		}
	} else {
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.cfg.MaxFailures {
			notify = b.transition(StateOpen)
		}
	}

	b.mu.Unlock()
	notify()
}

// transition меняет состояние под блокировкой и возвращает уведомление,
// которое вызывающий выполняет уже после Unlock.
func (b *Breaker) transition(to State) func() {
	from := b.state
	b.state = to
	b.failures = 0
	b.successes = 0
	if to == StateOpen {
		b.openUntil = b.now().Add(b.cfg.Cooldown)
	}
	if b.cfg.OnStateChange == nil || from == to {
		return func() {}
	}
	name, cb := b.cfg.Name, b.cfg.OnStateChange
	return func() { cb(name, from, to) }
}
