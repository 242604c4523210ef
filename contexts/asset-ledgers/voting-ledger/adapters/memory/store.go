package memory

import (
	"context"
	"sync"
	"time"

	"aegis/contexts/asset-ledgers/voting-ledger/ports"
)

// Store is the in-memory proposal and vote adapter.
type Store struct {
	mu        sync.RWMutex
	proposals map[string]ports.Proposal
	votes     map[voteKey]ports.Vote
}

type voteKey struct {
	proposalID string
	voter      string
}

func NewStore() *Store {
	return &Store{
		proposals: make(map[string]ports.Proposal),
		votes:     make(map[voteKey]ports.Vote),
	}
}

func (s *Store) GetProposal(_ context.Context, proposalID string) (ports.Proposal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[proposalID]
	if !ok {
		return ports.Proposal{}, false, nil
	}
	cloned := proposal
	cloned.Options = append([]string(nil), proposal.Options...)
	return cloned, true, nil
}

func (s *Store) PutProposal(_ context.Context, proposal ports.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	proposal.Options = append([]string(nil), proposal.Options...)
	s.proposals[proposal.ProposalID] = proposal
	return nil
}

func (s *Store) GetVote(_ context.Context, proposalID, voter string) (ports.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[voteKey{proposalID: proposalID, voter: voter}]
	return vote, ok, nil
}

func (s *Store) PutVote(_ context.Context, vote ports.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[voteKey{proposalID: vote.ProposalID, voter: vote.Voter}] = vote
	return nil
}

func (s *Store) ListVotes(_ context.Context, proposalID string) ([]ports.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var votes []ports.Vote
	for key, vote := range s.votes {
		if key.proposalID == proposalID {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
