package runtime

import (
	"fmt"
	"sync"

	types "github.com/yungbote/vpnscout-backend/internal/domain"
)

// Operation is one scrape/sync job kind. Run returns the adapter output,
// which the runner serializes into the job record.
type Operation interface {
	Type() types.JobType
	// SubjectParam names the required request parameter, or "" when the
	// operation takes no subject.
	SubjectParam() string
	Run(jc *Context) (any, error)
}

type Registry struct {
	mu         sync.RWMutex
	operations map[types.JobType]Operation
}

func NewRegistry() *Registry {
	return &Registry{operations: make(map[types.JobType]Operation)}
}

func (r *Registry) Register(op Operation) error {
	if op == nil {
		return fmt.Errorf("nil operation")
	}
	t := op.Type()
	if t == "" {
		return fmt.Errorf("operation Type() is empty")
	}
	if t == types.JobTypeUnknown {
		return fmt.Errorf("job_type=%s cannot be registered", t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.operations[t]; exists {
		return fmt.Errorf("operation already registered for job_type=%s", t)
	}
	r.operations[t] = op
	return nil
}

func (r *Registry) Get(jobType types.JobType) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operations[jobType]
	return op, ok
}

// SourceDescriptor renders the record's source column, e.g. "pricing:nordvpn" or "news:all".
func SourceDescriptor(jobType types.JobType, subject string) string {
	if subject == "" {
		subject = "all"
	}
	return string(jobType) + ":" + subject
}
