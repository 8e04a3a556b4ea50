package status

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"capitol/internal/common"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultErrorCap  = 100
	DefaultSampleCap = 1440
)

const unknownName = "unknown"

// Options configures a Store. The zero value picks sane defaults,
// so status.New(status.Options{}) is always valid
type Options struct {
	// ErrorCap bounds the recent-error ring
	ErrorCap int
	// SampleCap bounds the runtime sample ring
	SampleCap int
	// Probe supplies memory and load readings for SampleRuntime
	Probe RuntimeProbe
	// Clock overrides the time source, for tests
	Clock func() time.Time
}

// Store is the single source of truth for bot, command, user and runtime
// state. It is constructed once by the process entry point and passed by
// reference to every consumer. All recording operations are best effort:
// they never fail, never panic on malformed input and never return an
// error to the caller, because telemetry must not be able to break the
// command it observes
type Store struct {
	mu       sync.RWMutex
	bot      BotLifecycle
	commands map[string]*CommandStat
	users    map[string]*UserActivity
	errors   common.Ring[ErrorEntry]
	samples  common.Ring[RuntimeSample]
	probe    RuntimeProbe
	now      func() time.Time
}

func New(opts Options) *Store {
	if opts.ErrorCap <= 0 {
		opts.ErrorCap = DefaultErrorCap
	}
	if opts.SampleCap <= 0 {
		opts.SampleCap = DefaultSampleCap
	}
	if opts.Probe == nil {
		opts.Probe = NewProcessProbe()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Store{
		commands: map[string]*CommandStat{},
		users:    map[string]*UserActivity{},
		errors:   common.NewRing[ErrorEntry](opts.ErrorCap),
		samples:  common.NewRing[RuntimeSample](opts.SampleCap),
		probe:    opts.Probe,
		now:      opts.Clock,
	}
}

// MarkReady flags the bot as logged in. ReadyAt is set exactly once,
// repeated calls are harmless
func (s *Store) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bot.Ready = true
	if s.bot.ReadyAt == nil {
		now := s.now()
		s.bot.ReadyAt = &now
	}
}

// MarkLoginError records a failed login attempt. It does not clear Ready
func (s *Store) MarkLoginError(err error) {
	message := unknownName
	if err != nil {
		message = err.Error()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bot.LoginError = &LoginError{Message: message, Timestamp: s.now()}
}

// MarkHeartbeat stamps the last heartbeat time. Last writer wins
func (s *Store) MarkHeartbeat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.bot.LastHeartbeat = &now
}

// RecordCommandSuccess bumps the run and success counters for the command
func (s *Store) RecordCommandSuccess(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	stat := s.command(name)
	stat.RunCount++
	stat.SuccessCount++
	stat.LastRunAt = &now
	stat.LastSuccessAt = &now
}

// RecordCommandError bumps the run and error counters for the command and
// appends an entry to the bounded error ring. Both views are updated under
// one lock, so no reader can observe one without the other
func (s *Store) RecordCommandError(name string, err error, meta *ErrorMeta) {
	message := unknownName
	var stack string
	if err != nil {
		message = err.Error()
		// pkg/errors wrapped errors carry a stack trace we can keep
		if _, ok := err.(stackTracer); ok {
			stack = fmt.Sprintf("%+v", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	stat := s.command(name)
	stat.RunCount++
	stat.ErrorCount++
	stat.LastRunAt = &now
	stat.LastErrorAt = &now
	stat.LastErrorMessage = message
	s.errors.Push(ErrorEntry{
		ID:        uuid.New(),
		Command:   stat.Name,
		Message:   message,
		Stack:     stack,
		Meta:      copyMeta(meta),
		Timestamp: now,
	})
}

// RecordUserCommand tallies one command invocation for a user. The
// username is overwritten with the latest seen display name
func (s *Store) RecordUserCommand(userID string, username string, commandName string) {
	if userID == "" {
		userID = unknownName
	}
	if commandName == "" {
		commandName = unknownName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		user = &UserActivity{UserID: userID, Commands: map[string]int{}}
		s.users[userID] = user
	}
	if username != "" {
		user.Username = username
	} else if user.Username == "" {
		user.Username = unknownName
	}
	user.CommandCount++
	user.Commands[commandName]++
	user.LastActivity = s.now()
}

// SampleRuntime appends one point to the runtime time series: current
// process RSS, 1-minute load average and the running total command count.
// A failing probe degrades to zero readings instead of skipping the sample
func (s *Store) SampleRuntime() {
	rssMB, load1, err := s.probe.Read()
	if err != nil {
		log.Debug().Msg(fmt.Sprintf("Runtime probe failed: %s", err))
		rssMB, load1 = 0, 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now()
	// Keep sample timestamps monotonically non-decreasing
	if items := s.samples.ItemsNewestFirst(); len(items) > 0 && ts.Before(items[0].Timestamp) {
		ts = items[0].Timestamp
	}
	s.samples.Push(RuntimeSample{
		Timestamp:     ts,
		RssMB:         rssMB,
		Load1:         load1,
		CmdCountTotal: s.totalRunsLocked(),
	})
}

// ResetCommand atomically zeroes the counters of a command and clears its
// last-error fields. Used by retry logic after a transient failure
func (s *Store) ResetCommand(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stat := s.command(name)
	stat.RunCount = 0
	stat.SuccessCount = 0
	stat.ErrorCount = 0
	stat.ResetCount++
	stat.LastErrorAt = nil
	stat.LastErrorMessage = ""
	log.Debug().Msg(fmt.Sprintf("Counters reset for command %s", stat.Name))
}

// GetStatus returns a deep copy of the store's state. Later mutations of
// the store are never visible through a previously returned snapshot
func (s *Store) GetStatus() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := Snapshot{Bot: s.bot}
	snapshot.Bot.ReadyAt = copyTime(s.bot.ReadyAt)
	snapshot.Bot.LastHeartbeat = copyTime(s.bot.LastHeartbeat)
	if s.bot.LoginError != nil {
		loginError := *s.bot.LoginError
		snapshot.Bot.LoginError = &loginError
	}

	snapshot.Commands = make([]CommandStat, 0, len(s.commands))
	for _, stat := range s.commands {
		copied := *stat
		copied.LastRunAt = copyTime(stat.LastRunAt)
		copied.LastSuccessAt = copyTime(stat.LastSuccessAt)
		copied.LastErrorAt = copyTime(stat.LastErrorAt)
		snapshot.Commands = append(snapshot.Commands, copied)
	}
	sort.Slice(snapshot.Commands, func(i, j int) bool {
		return snapshot.Commands[i].Name < snapshot.Commands[j].Name
	})

	snapshot.Errors = s.errors.ItemsNewestFirst()
	for i := range snapshot.Errors {
		snapshot.Errors[i].Meta = copyMeta(snapshot.Errors[i].Meta)
	}

	snapshot.Users = make([]UserActivity, 0, len(s.users))
	for _, user := range s.users {
		copied := *user
		copied.Commands = make(map[string]int, len(user.Commands))
		for command, count := range user.Commands {
			copied.Commands[command] = count
		}
		snapshot.Users = append(snapshot.Users, copied)
	}
	sort.SliceStable(snapshot.Users, func(i, j int) bool {
		return snapshot.Users[i].CommandCount > snapshot.Users[j].CommandCount
	})

	snapshot.Metrics = Metrics{Samples: s.samples.Items()}
	return snapshot
}

// command returns the stat for a name, creating it on first sight.
// Callers must hold the write lock
func (s *Store) command(name string) *CommandStat {
	if name == "" {
		name = unknownName
	}
	stat, ok := s.commands[name]
	if !ok {
		stat = &CommandStat{Name: name}
		s.commands[name] = stat
	}
	return stat
}

func (s *Store) totalRunsLocked() int {
	total := 0
	for _, stat := range s.commands {
		total += stat.RunCount
	}
	return total
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

func copyMeta(meta *ErrorMeta) *ErrorMeta {
	if meta == nil {
		return nil
	}
	copied := *meta
	if meta.Fields != nil {
		copied.Fields = make(map[string]string, len(meta.Fields))
		for key, value := range meta.Fields {
			copied.Fields[key] = value
		}
	}
	return &copied
}
