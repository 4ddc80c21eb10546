package outlier

import (
	"math"
	"math/rand"
)

// isolationNode 隔离树节点
type isolationNode struct {
	feature int
	split   float64
	left    *isolationNode
	right   *isolationNode
	size    int
	leaf    bool
}

// Forest 隔离森林
// Fit 之后只读，Score 可并发调用
type Forest struct {
	trees      []*isolationNode
	numTrees   int
	sampleSize int
	maxDepth   int
	rng        *rand.Rand

	// 实际训练使用的样本数，用于归一化路径长度
	fittedSample int
}

// NewForest 创建隔离森林
func NewForest(numTrees, sampleSize, maxDepth int, seed int64) *Forest {
	return &Forest{
		numTrees:   numTrees,
		sampleSize: sampleSize,
		maxDepth:   maxDepth,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Fit 在给定向量上训练，重复调用会重新训练
func (f *Forest) Fit(vectors [][]float64) {
	f.trees = make([]*isolationNode, 0, f.numTrees)
	if len(vectors) == 0 {
		f.fittedSample = 0
		return
	}

	for i := 0; i < f.numTrees; i++ {
		sample := f.sample(vectors)
		f.fittedSample = len(sample)
		f.trees = append(f.trees, f.build(sample, 0))
	}
}

// Trained 是否已训练
func (f *Forest) Trained() bool {
	return len(f.trees) > 0
}

// Score 异常分数 [0,1]，越大越异常；未训练返回 0.5
func (f *Forest) Score(vector []float64) float64 {
	if len(f.trees) == 0 {
		return 0.5
	}

	total := 0.0
	for _, tree := range f.trees {
		total += pathLength(tree, vector, 0)
	}
	avg := total / float64(len(f.trees))

	// score = 2^(-E[h(x)] / c(n))
	c := averagePathLength(f.fittedSample)
	if c == 0 {
		return 0.5
	}
	return math.Pow(2, -avg/c)
}

func (f *Forest) sample(vectors [][]float64) [][]float64 {
	size := f.sampleSize
	if size <= 0 || size > len(vectors) {
		size = len(vectors)
	}

	shuffled := make([][]float64, len(vectors))
	copy(shuffled, vectors)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := f.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:size]
}

func (f *Forest) build(data [][]float64, depth int) *isolationNode {
	if len(data) <= 1 || depth >= f.maxDepth || allIdentical(data) {
		return &isolationNode{size: len(data), leaf: true}
	}

	feature := f.rng.Intn(len(data[0]))
	lo, hi := featureRange(data, feature)
	split := lo + f.rng.Float64()*(hi-lo)

	left := make([][]float64, 0, len(data))
	right := make([][]float64, 0, len(data))
	for _, v := range data {
		if v[feature] < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}

	// 未能划分（该特征上所有值相同）
	if len(left) == 0 || len(right) == 0 {
		return &isolationNode{size: len(data), leaf: true}
	}

	return &isolationNode{
		feature: feature,
		split:   split,
		left:    f.build(left, depth+1),
		right:   f.build(right, depth+1),
		size:    len(data),
	}
}

func pathLength(node *isolationNode, vector []float64, depth int) float64 {
	if node.leaf {
		return float64(depth) + averagePathLength(node.size)
	}
	if node.feature < len(vector) && vector[node.feature] < node.split {
		return pathLength(node.left, vector, depth+1)
	}
	return pathLength(node.right, vector, depth+1)
}

// averagePathLength BST 未命中查找的平均路径长度 c(n)
func averagePathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	if n == 2 {
		return 1
	}
	// c(n) = 2H(n-1) - 2(n-1)/n，H(i) ≈ ln(i) + γ
	h := math.Log(float64(n-1)) + 0.5772156649
	return 2*h - 2*float64(n-1)/float64(n)
}

func allIdentical(data [][]float64) bool {
	first := data[0]
	for _, v := range data[1:] {
		for j := range first {
			if math.Abs(v[j]-first[j]) > 1e-10 {
				return false
			}
		}
	}
	return true
}

func featureRange(data [][]float64, feature int) (float64, float64) {
	lo, hi := data[0][feature], data[0][feature]
	for _, v := range data[1:] {
		if v[feature] < lo {
			lo = v[feature]
		}
		if v[feature] > hi {
			hi = v[feature]
		}
	}
	return lo, hi
}
