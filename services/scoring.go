package services

// Position and grade points are two independent lookup tables; a result's
// points are always their sum. Unknown positions or grades score zero.
var positionPoints = map[int]int{
	1: 5,
	2: 3,
	3: 1,
}

var gradePoints = map[string]int{
	"A": 3,
	"B": 2,
	"C": 1,
	"D": 0,
	"E": 0,
}

// CalculatePoints converts a (position, grade) pair into the point value
// stored on a result. Every path that writes or rewrites a result's points
// must go through this function.
func CalculatePoints(position int, grade string) int {
	return positionPoints[position] + gradePoints[grade]
}
