package predict

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// logistic is a binary classifier fitted by batch gradient descent with an L2
// penalty on the weights. The bias is not penalized.
type logistic struct {
	weights []float64
	bias    float64
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func fitLogistic(x mat.Matrix, y []float64, opts Options) *logistic {
	n, p := x.Dims()
	w := mat.NewVecDense(p, nil)
	bias := 0.0

	z := mat.NewVecDense(n, nil)
	resid := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(p, nil)

	for range opts.Iterations {
		z.MulVec(x, w)
		biasGrad := 0.0
		for i := range n {
			r := sigmoid(z.AtVec(i)+bias) - y[i]
			resid.SetVec(i, r)
			biasGrad += r
		}

		grad.MulVec(x.T(), resid)
		grad.ScaleVec(1/float64(n), grad)
		grad.AddScaledVec(grad, opts.L2, w)

		w.AddScaledVec(w, -opts.LearningRate, grad)
		bias -= opts.LearningRate * biasGrad / float64(n)
	}

	return &logistic{weights: mat.Col(nil, 0, w), bias: bias}
}

func (l *logistic) probability(x []float64) float64 {
	return sigmoid(floats.Dot(x, l.weights) + l.bias)
}
