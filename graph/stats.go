package graph

//*******************************************
// graph statistics
//*******************************************

type GraphStats struct {
	Nodes           int     `json:"nodes"`
	Segments        int     `json:"segments"`
	Undirected      int     `json:"undirected"`
	DeadEnds        int     `json:"dead_ends"`
	Junctions       int     `json:"junctions"`
	Degenerate      int     `json:"degenerate"`
	SkippedFeatures int     `json:"skipped_features"`
	TotalLength     float64 `json:"total_length"`
}

func (self *Graph) Stats() GraphStats {
	stats := GraphStats{
		Nodes:           self.NodeCount(),
		Segments:        self.EdgeCount(),
		Undirected:      self.UndirectedCount(),
		SkippedFeatures: self.skipped,
	}
	for i := 0; i < self.NodeCount(); i++ {
		degree := len(self.topology[i])
		if degree == 1 {
			stats.DeadEnds += 1
		} else if degree > 2 {
			stats.Junctions += 1
		}
	}
	for _, edge := range self.edges {
		if self.IsDegenerate(edge) {
			stats.Degenerate += 1
			continue
		}
		stats.TotalLength += self.GetEdgeLength(edge)
	}
	return stats
}
