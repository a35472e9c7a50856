package sqlxrepos

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id               UUID PRIMARY KEY,
    name             TEXT NOT NULL,
    email            TEXT NOT NULL UNIQUE,
    role             TEXT NOT NULL,
    enrollment_no    TEXT NOT NULL DEFAULT '',
    division         TEXT NOT NULL DEFAULT '',
    class_teacher_id TEXT NOT NULL DEFAULT '',
    avatar           TEXT NOT NULL DEFAULT '',
    phone_number     TEXT NOT NULL DEFAULT '',
    password_hash    BYTEA NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS attendance_sessions (
    id         UUID PRIMARY KEY,
    code       TEXT NOT NULL,
    creator_id UUID NOT NULL,
    subject    TEXT NOT NULL,
    division   TEXT NOT NULL DEFAULT '',
    is_active  BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- codes must be unique among currently-active sessions only
CREATE UNIQUE INDEX IF NOT EXISTS attendance_sessions_active_code_key
    ON attendance_sessions (code) WHERE is_active;

CREATE TABLE IF NOT EXISTS attendance_records (
    session_id    UUID NOT NULL REFERENCES attendance_sessions (id),
    student_id    UUID NOT NULL,
    student_name  TEXT NOT NULL,
    enrollment_no TEXT NOT NULL DEFAULT '',
    joined_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    lat           DOUBLE PRECISION NOT NULL,
    lng           DOUBLE PRECISION NOT NULL,
    position      INTEGER NOT NULL,
    PRIMARY KEY (session_id, student_id)
);

CREATE TABLE IF NOT EXISTS notices (
    id          UUID PRIMARY KEY,
    title       TEXT NOT NULL,
    content     TEXT NOT NULL,
    author_id   UUID NOT NULL,
    author_name TEXT NOT NULL,
    audience    TEXT NOT NULL DEFAULT 'ALL',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS subjects (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL,
    code       TEXT NOT NULL,
    teacher_id UUID NOT NULL
);

CREATE TABLE IF NOT EXISTS assignments (
    id          UUID PRIMARY KEY,
    subject_id  UUID NOT NULL REFERENCES subjects (id),
    title       TEXT NOT NULL,
    due_date    TIMESTAMPTZ NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    position    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS marks (
    id             UUID PRIMARY KEY,
    subject_id     UUID NOT NULL REFERENCES subjects (id),
    student_id     UUID NOT NULL,
    marks_obtained INTEGER NOT NULL,
    total_marks    INTEGER NOT NULL,
    exam_type      TEXT NOT NULL
);
`
