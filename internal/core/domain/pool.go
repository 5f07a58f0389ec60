package domain

// Pool is the fixed, ordered list of replicas a router balances across.
// Ordering only matters to Round Robin, which indexes into the eligible
// subset in insertion order.
type Pool struct {
	replicas []*Replica
}

func NewPool(replicas []*Replica) *Pool {
	return &Pool{replicas: replicas}
}

func (p *Pool) All() []*Replica {
	return p.replicas
}

func (p *Pool) Find(name string) *Replica {
	for _, r := range p.replicas {
		if r.Name == name {
			return r
		}
	}
	return nil
}

func (p *Pool) Len() int {
	return len(p.replicas)
}
