package dao

const (
	// CollectionApplicants 存储求职者记录的表。
	CollectionApplicants = "applicants"

	// FieldInterviewCode 求职者记录中的面试码字段，唯一索引。
	FieldInterviewCode = "interview_code"
	FieldCreateTime    = "createTime"
)
