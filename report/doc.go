// Package report derives administrator reports from a final assignment list.
//
// Reports are pure functions of the snapshot records and the final list.
// They surface what the engine deliberately leaves alone, such as schools
// still held by supervisors who became inactive after the assignment.
package report
