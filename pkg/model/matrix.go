package model

import (
	"math"
	"math/rand"
)

// Matrix represents a 2D matrix backed by a flat float64 slice.
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

// NewMatrix creates a new zero matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		Rows: rows,
		Cols: cols,
		Data: make([]float64, rows*cols),
	}
}

// RandomMatrix creates a matrix with uniform random values in [-scale, scale].
func RandomMatrix(rows, cols int, scale float64) *Matrix {
	m := NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = (rand.Float64()*2 - 1) * scale
	}
	return m
}

// Get returns the value at position (i, j).
func (m *Matrix) Get(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Set sets the value at position (i, j).
func (m *Matrix) Set(i, j int, val float64) {
	m.Data[i*m.Cols+j] = val
}

// MatMul performs matrix multiplication.
func MatMul(a, b *Matrix) *Matrix {
	if a.Cols != b.Rows {
		panic("incompatible matrix dimensions")
	}
	result := NewMatrix(a.Rows, b.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < b.Cols; j++ {
			sum := 0.0
			for k := 0; k < a.Cols; k++ {
				sum += a.Get(i, k) * b.Get(k, j)
			}
			result.Set(i, j, sum)
		}
	}
	return result
}

// Transpose transposes a matrix.
func Transpose(m *Matrix) *Matrix {
	result := NewMatrix(m.Cols, m.Rows)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			result.Set(j, i, m.Get(i, j))
		}
	}
	return result
}

// Add performs element-wise addition.
func Add(a, b *Matrix) *Matrix {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		panic("incompatible matrix dimensions")
	}
	result := NewMatrix(a.Rows, a.Cols)
	for i := range a.Data {
		result.Data[i] = a.Data[i] + b.Data[i]
	}
	return result
}

// Softmax applies the softmax function along rows.
func Softmax(m *Matrix) *Matrix {
	result := NewMatrix(m.Rows, m.Cols)
	for i := 0; i < m.Rows; i++ {
		max := m.Get(i, 0)
		for j := 1; j < m.Cols; j++ {
			if m.Get(i, j) > max {
				max = m.Get(i, j)
			}
		}
		sum := 0.0
		for j := 0; j < m.Cols; j++ {
			val := math.Exp(m.Get(i, j) - max)
			result.Set(i, j, val)
			sum += val
		}
		for j := 0; j < m.Cols; j++ {
			result.Set(i, j, result.Get(i, j)/sum)
		}
	}
	return result
}

// GELU activation function.
func GELU(x float64) float64 {
	return 0.5 * x * (1 + math.Tanh(math.Sqrt(2/math.Pi)*(x+0.044715*math.Pow(x, 3))))
}

// ApplyGELU applies GELU activation to all elements.
func ApplyGELU(m *Matrix) *Matrix {
	result := NewMatrix(m.Rows, m.Cols)
	for i := range m.Data {
		result.Data[i] = GELU(m.Data[i])
	}
	return result
}

// LayerNorm applies layer normalization along rows.
func LayerNorm(m *Matrix, eps float64) *Matrix {
	result := NewMatrix(m.Rows, m.Cols)
	for i := 0; i < m.Rows; i++ {
		mean := 0.0
		for j := 0; j < m.Cols; j++ {
			mean += m.Get(i, j)
		}
		mean /= float64(m.Cols)

		variance := 0.0
		for j := 0; j < m.Cols; j++ {
			diff := m.Get(i, j) - mean
			variance += diff * diff
		}
		variance /= float64(m.Cols)

		std := math.Sqrt(variance + eps)
		for j := 0; j < m.Cols; j++ {
			result.Set(i, j, (m.Get(i, j)-mean)/std)
		}
	}
	return result
}
