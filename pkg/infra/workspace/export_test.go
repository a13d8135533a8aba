package workspace

func (x *Manager) LockCountForTest() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.locks)
}
