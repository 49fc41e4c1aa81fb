package pow

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/domain/consensus/utils/difficulty"
	"github.com/kaspanet/chaingen/domain/consensus/utils/hashes"
)

// NoncesPerWindow is the number of nonces tried before the timestamp is
// refreshed and the nonce starts over from zero.
const NoncesPerWindow = 100_000

// State is the state of a Searcher.
type State int

// Searcher states
const (
	Searching State = iota
	Found
)

func (s State) String() string {
	switch s {
	case Searching:
		return "Searching"
	case Found:
		return "Found"
	default:
		return "Unknown"
	}
}

// Rate is a progress observation emitted after every window without a
// qualifying nonce.
type Rate struct {
	Attempts uint64
	Elapsed  time.Duration
}

// KiloHashesPerSecond returns the hash rate of the observation.
func (r Rate) KiloHashesPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Attempts) / 1000.0 / r.Elapsed.Seconds()
}

// RateObserver receives the rate observations of a search.
type RateObserver func(rate Rate)

// Searcher looks for a nonce and timestamp under which a block header
// hashes below a target. It mutates the header it was created with.
type Searcher struct {
	header   *externalapi.DomainBlockHeader
	target   difficulty.Target
	clock    func() time.Time
	workers  int
	observer RateObserver

	state    State
	attempts uint64
}

// NewSearcher returns a Searcher for header against target. The search
// starts from the header's current nonce and timestamp.
func NewSearcher(header *externalapi.DomainBlockHeader, target difficulty.Target) *Searcher {
	return &Searcher{
		header:  header,
		target:  target,
		clock:   time.Now,
		workers: 1,
		state:   Searching,
	}
}

// SetClock sets the time source used to refresh the timestamp.
func (s *Searcher) SetClock(clock func() time.Time) *Searcher {
	s.clock = clock
	return s
}

// SetWorkers sets the number of goroutines sharing each window. Values
// below 2 search on the calling goroutine.
func (s *Searcher) SetWorkers(workers int) *Searcher {
	s.workers = workers
	return s
}

// SetRateObserver sets a function that receives a Rate after every window
// without a qualifying nonce.
func (s *Searcher) SetRateObserver(observer RateObserver) *Searcher {
	s.observer = observer
	return s
}

// State returns the current state of the search.
func (s *Searcher) State() State {
	return s.state
}

// Attempts returns the number of header hashes computed so far.
func (s *Searcher) Attempts() uint64 {
	return s.attempts
}

// Search blocks until the header qualifies and returns its hash. It has no
// bound: callers that need one must supply an easy enough target.
func (s *Searcher) Search() *externalapi.DomainHash {
	for s.state == Searching {
		windowStart := time.Now()

		var nonce uint32
		var found bool
		if s.workers > 1 {
			nonce, found = s.searchWindowParallel()
		} else {
			nonce, found = s.searchWindow()
		}
		if found {
			s.header.Nonce = nonce
			s.state = Found
			break
		}

		rate := Rate{Attempts: NoncesPerWindow, Elapsed: time.Since(windowStart)}
		log.Infof("No qualifying nonce in window ending at timestamp %d. Current hash rate is %.2f Khash/s",
			s.header.Timestamp, rate.KiloHashesPerSecond())
		if s.observer != nil {
			s.observer(rate)
		}

		s.header.Timestamp = uint32(s.clock().Unix())
		s.header.Nonce = 0
	}

	hash := consensushashing.HeaderHash(s.header)
	log.Tracef("Found nonce %d at timestamp %d after %d attempts: %s",
		s.header.Nonce, s.header.Timestamp, s.attempts, hash)
	return hash
}

// searchWindow tries NoncesPerWindow consecutive nonces starting at the
// header's nonce.
func (s *Searcher) searchWindow() (nonce uint32, found bool) {
	header := *s.header
	start := header.Nonce
	for offset := uint32(0); offset < NoncesPerWindow; offset++ {
		header.Nonce = start + offset
		s.attempts++
		if s.qualifies(&header) {
			return header.Nonce, true
		}
	}
	return 0, false
}

// searchWindowParallel splits the window across workers by stride: worker i
// tries offsets i, i+workers, i+2*workers and so on. The smallest qualifying
// offset wins, which is the nonce searchWindow would have found.
func (s *Searcher) searchWindowParallel() (nonce uint32, found bool) {
	const notFound = uint32(NoncesPerWindow)
	best := notFound
	var attempts uint64

	start := s.header.Nonce
	workers := uint32(s.workers)

	wg := sync.WaitGroup{}
	wg.Add(int(workers))
	for i := uint32(0); i < workers; i++ {
		worker := i
		header := *s.header
		spawn("searchWindowParallel-worker", func() {
			defer wg.Done()
			var tried uint64
			for offset := worker; offset < NoncesPerWindow; offset += workers {
				// A smaller offset already qualified in another stride.
				if offset > atomic.LoadUint32(&best) {
					break
				}
				header.Nonce = start + offset
				tried++
				if s.qualifies(&header) {
					for {
						current := atomic.LoadUint32(&best)
						if offset >= current || atomic.CompareAndSwapUint32(&best, current, offset) {
							break
						}
					}
					break
				}
			}
			atomic.AddUint64(&attempts, tried)
		})
	}
	wg.Wait()

	s.attempts += attempts
	if best == notFound {
		return 0, false
	}
	return start + best, true
}

func (s *Searcher) qualifies(header *externalapi.DomainBlockHeader) bool {
	return s.target.IsMetBy(hashes.ToBig(consensushashing.HeaderHash(header)))
}
